package domain

import (
	"sort"
	"time"
)

// Issuer is a consumer bank offered as payment option.
type Issuer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Directory is the acquirer's issuer list at FetchedAt.
type Directory struct {
	AcquirerID string    `json:"acquirer_id"`
	FetchedAt  time.Time `json:"fetched_at"`
	Issuers    []Issuer  `json:"issuers"`
}

// NewDirectory flattens a country -> issuer id -> name mapping. Issuers are
// ordered by country, then name.
func NewDirectory(acquirerID string, byCountry map[string]map[string]string, fetchedAt time.Time) *Directory {
	d := &Directory{AcquirerID: acquirerID, FetchedAt: fetchedAt, Issuers: []Issuer{}}
	for country, issuers := range byCountry {
		for id, name := range issuers {
			d.Issuers = append(d.Issuers, Issuer{ID: id, Name: name, Country: country})
		}
	}
	sort.Slice(d.Issuers, func(i, j int) bool {
		a, b := d.Issuers[i], d.Issuers[j]
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return d
}

// Find looks up an issuer by id.
func (d *Directory) Find(id string) (Issuer, bool) {
	for _, is := range d.Issuers {
		if is.ID == id {
			return is, true
		}
	}
	return Issuer{}, false
}

// Countries returns the distinct countries in directory order.
func (d *Directory) Countries() []string {
	var out []string
	for i, is := range d.Issuers {
		if i == 0 || d.Issuers[i-1].Country != is.Country {
			out = append(out, is.Country)
		}
	}
	return out
}
