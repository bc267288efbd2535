// Package idealtest provides key material and canned acquirer replies for
// tests of iDEAL clients.
package idealtest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"
)

const namespace = "http://www.idealdesk.com/ideal/messages/mer-acq/3.3.1"

// Identity is a self-signed RSA identity.
type Identity struct {
	Key     *rsa.PrivateKey
	Cert    *x509.Certificate
	CertPEM string
	KeyPEM  string
}

// NewIdentity generates a 2048 bit key and a certificate valid for a day
// around now.
func NewIdentity(t testing.TB, commonName string) *Identity {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}

	return &Identity{
		Key:     key,
		Cert:    cert,
		CertPEM: string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
		KeyPEM:  string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})),
	}
}

// Issuer is one directory entry.
type Issuer struct {
	Country string
	ID      string
	Name    string
}

func header(root string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>`+
		`<%s xmlns="%s" version="3.3.1"><createDateTimestamp>2026-10-14T10:00:00.000Z</createDateTimestamp>`, root, namespace)
}

// DirectoryXML is a DirectoryRes listing issuers under their countries in
// order of first appearance.
func DirectoryXML(issuers ...Issuer) string {
	var order []string
	byCountry := make(map[string][]Issuer)
	for _, is := range issuers {
		if _, ok := byCountry[is.Country]; !ok {
			order = append(order, is.Country)
		}
		byCountry[is.Country] = append(byCountry[is.Country], is)
	}

	var b strings.Builder
	b.WriteString(header("DirectoryRes"))
	b.WriteString(`<Acquirer><acquirerID>0050</acquirerID></Acquirer>`)
	b.WriteString(`<Directory><directoryDateTimestamp>2026-10-14T09:00:00.000Z</directoryDateTimestamp>`)
	for _, country := range order {
		fmt.Fprintf(&b, `<Country><countryNames>%s</countryNames>`, country)
		for _, is := range byCountry[country] {
			fmt.Fprintf(&b, `<Issuer><issuerID>%s</issuerID><issuerName>%s</issuerName></Issuer>`, is.ID, is.Name)
		}
		b.WriteString(`</Country>`)
	}
	b.WriteString(`</Directory></DirectoryRes>`)
	return b.String()
}

// TransactionXML is an AcquirerTrxRes.
func TransactionXML(transactionID, authURL, purchaseID string) string {
	return header("AcquirerTrxRes") +
		`<Acquirer><acquirerID>0050</acquirerID></Acquirer>` +
		fmt.Sprintf(`<Issuer><issuerAuthenticationURL>%s</issuerAuthenticationURL></Issuer>`, authURL) +
		fmt.Sprintf(`<Transaction><transactionID>%s</transactionID>`, transactionID) +
		`<transactionCreateDateTimestamp>2026-10-14T10:00:00.000Z</transactionCreateDateTimestamp>` +
		fmt.Sprintf(`<purchaseID>%s</purchaseID></Transaction></AcquirerTrxRes>`, purchaseID)
}

// StatusXML is an AcquirerStatusRes for a 10.50 EUR payment.
func StatusXML(transactionID, status string) string {
	return header("AcquirerStatusRes") +
		`<Acquirer><acquirerID>0050</acquirerID></Acquirer>` +
		fmt.Sprintf(`<Transaction><transactionID>%s</transactionID><status>%s</status>`, transactionID, status) +
		`<statusDateTimestamp>2026-10-14T10:05:00.000Z</statusDateTimestamp>` +
		`<consumerName>J. de Vries</consumerName><consumerIBAN>NL44RABO0123456789</consumerIBAN>` +
		`<consumerBIC>RABONL2U</consumerBIC><amount>10.50</amount><currency>EUR</currency>` +
		`</Transaction></AcquirerStatusRes>`
}

// ErrorXML is an AcquirerErrorRes.
func ErrorXML(code, message string) string {
	return header("AcquirerErrorRes") +
		fmt.Sprintf(`<Error><errorCode>%s</errorCode><errorMessage>%s</errorMessage>`, code, message) +
		`<errorDetail>Field generating error: issuerID</errorDetail>` +
		`<suggestedAction>Choose another bank</suggestedAction>` +
		`<consumerMessage>Betalen met iDEAL is nu niet mogelijk.</consumerMessage></Error></AcquirerErrorRes>`
}
