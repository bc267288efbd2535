package ideal

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// RequestKind names a request variant by its root element.
type RequestKind string

const (
	DirectoryReq   RequestKind = "DirectoryReq"
	TransactionReq RequestKind = "AcquirerTrxReq"
	StatusReq      RequestKind = "AcquirerStatusReq"
)

// Request is one of DirectoryRequest, TransactionRequest or StatusRequest.
type Request interface {
	Kind() RequestKind
	IsSigned() bool
	CreatedAt() time.Time
	// Document returns the XML as built so far. Before signing it lacks the
	// request specific payload.
	Document() *etree.Document
	Bytes() ([]byte, error)

	base() *message
	preSign() error
}

// message is the shared document skeleton of every request.
type message struct {
	kind      RequestKind
	doc       *etree.Document
	root      *etree.Element
	merchant  *etree.Element
	createdAt time.Time
	prepared  bool
	signed    bool
}

func newMessage(kind RequestKind, m Merchant, now time.Time) *message {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.WriteSettings.CanonicalEndTags = true

	root := doc.CreateElement(string(kind))
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("version", Version)

	created := now.UTC()
	root.CreateElement("createDateTimestamp").SetText(created.Format(timestampLayout))

	merchant := root.CreateElement("Merchant")
	merchant.CreateElement("merchantID").SetText(fmt.Sprintf("%09d", m.ID))
	merchant.CreateElement("subID").SetText(strconv.Itoa(m.SubID))

	return &message{
		kind:      kind,
		doc:       doc,
		root:      root,
		merchant:  merchant,
		createdAt: created,
	}
}

func (m *message) Kind() RequestKind { return m.kind }
func (m *message) IsSigned() bool { return m.signed }
func (m *message) CreatedAt() time.Time { return m.createdAt }
func (m *message) Document() *etree.Document { return m.doc }
func (m *message) base() *message { return m }
func (m *message) Bytes() ([]byte, error) { return m.doc.WriteToBytes() }

// DirectoryRequest asks for the list of issuers. It has no payload.
type DirectoryRequest struct {
	*message
}

func (r *DirectoryRequest) preSign() error { return nil }

// TransactionRequest starts a payment. Fields may change until the request
// is signed; afterwards the document is fixed.
type TransactionRequest struct {
	*message

	Issuer       string
	ReturnURL    string
	PurchaseID   string
	Amount       int64
	Currency     string
	Language     string
	Description  string
	EntranceCode string

	now              func() time.Time
	expirationPeriod string
	expiresAt        time.Time
}

// SetExpirationPeriod takes a human readable period ("15 minutes",
// "1 hour 30 minutes") and stores its ISO-8601 form measured from now.
func (r *TransactionRequest) SetExpirationPeriod(period string) error {
	p, err := ParsePeriod(period)
	if err != nil {
		return newError(KindConfiguration, err, "expiration period")
	}
	now := r.now()
	r.expiresAt = p.AddTo(now)
	r.expirationPeriod = ISODuration(now, r.expiresAt)
	return nil
}

// ExpirationPeriod is the ISO-8601 duration sent on the wire.
func (r *TransactionRequest) ExpirationPeriod() string { return r.expirationPeriod }

// ExpiresAt is the absolute moment the period was computed to end.
func (r *TransactionRequest) ExpiresAt() time.Time { return r.expiresAt }

func (r *TransactionRequest) preSign() error {
	amount, err := FormatAmount(r.Amount)
	if err != nil {
		return newError(KindConfiguration, err, "transaction amount")
	}

	r.merchant.CreateElement("merchantReturnURL").SetText(r.ReturnURL)

	// Issuer precedes Merchant on the wire.
	issuer := etree.NewElement("Issuer")
	issuer.CreateElement("issuerID").SetText(r.Issuer)
	r.root.InsertChildAt(r.merchant.Index(), issuer)

	trx := r.root.CreateElement("Transaction")
	trx.CreateElement("purchaseID").SetText(r.PurchaseID)
	trx.CreateElement("amount").SetText(amount)
	trx.CreateElement("currency").SetText(r.Currency)
	trx.CreateElement("expirationPeriod").SetText(r.expirationPeriod)
	trx.CreateElement("language").SetText(r.Language)
	trx.CreateElement("description").SetText(r.Description)
	trx.CreateElement("entranceCode").SetText(r.EntranceCode)
	return nil
}

// StatusRequest polls a transaction by its acquirer assigned id.
type StatusRequest struct {
	*message

	TransactionID string
}

func (r *StatusRequest) preSign() error {
	trx := r.root.CreateElement("Transaction")
	trx.CreateElement("transactionID").SetText(r.TransactionID)
	return nil
}
