package ideal

import (
	"crypto/x509"
	"time"

	"github.com/beevik/etree"
)

// ResponseKind names a response variant by its root element.
type ResponseKind string

const (
	ErrorRes       ResponseKind = "AcquirerErrorRes"
	DirectoryRes   ResponseKind = "DirectoryRes"
	TransactionRes ResponseKind = "AcquirerTrxRes"
	StatusRes      ResponseKind = "AcquirerStatusRes"
)

// VerificationState records the outcome of the signature check.
type VerificationState int

const (
	Unchecked VerificationState = iota
	Valid
	Invalid
)

func (s VerificationState) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unchecked"
	}
}

// Response is a parsed acquirer reply. The typed views DirectoryResponse,
// TransactionResponse, StatusResponse and ErrorResponse share it.
type Response struct {
	kind    ResponseKind
	doc     *etree.Document
	request Request

	verifier Verifier
	cert     *x509.Certificate
	skip     bool

	state     VerificationState
	verifyErr error
}

func (r *Response) Kind() ResponseKind { return r.kind }
func (r *Response) Request() Request { return r.request }
func (r *Response) Document() *etree.Document { return r.doc }

// VerificationState reports the cached check result without running it.
func (r *Response) VerificationState() VerificationState { return r.state }

// Verify checks the reply signature against the acquirer certificate. The
// check runs at most once; later calls return the cached outcome. With
// verification disabled every reply counts as valid.
func (r *Response) Verify() error {
	if r.state != Unchecked {
		return r.verifyErr
	}
	if r.skip {
		r.state = Valid
		return nil
	}
	if err := r.verifier.Verify(r.doc, r.cert); err != nil {
		r.state = Invalid
		r.verifyErr = newError(KindSignature, err, "%s signature", r.kind)
		return r.verifyErr
	}
	r.state = Valid
	return nil
}

// IsVerified runs Verify and reports whether it passed.
func (r *Response) IsVerified() bool {
	return r.Verify() == nil
}

// CreatedAt is the acquirer's createDateTimestamp.
func (r *Response) CreatedAt() (time.Time, error) {
	return r.timestamp("//createDateTimestamp")
}

// AsDirectory returns the directory view when the reply is a DirectoryRes.
func (r *Response) AsDirectory() (*DirectoryResponse, bool) {
	if r.kind != DirectoryRes {
		return nil, false
	}
	return &DirectoryResponse{r}, true
}

// AsTransaction returns the transaction view when the reply is an AcquirerTrxRes.
func (r *Response) AsTransaction() (*TransactionResponse, bool) {
	if r.kind != TransactionRes {
		return nil, false
	}
	return &TransactionResponse{r}, true
}

// AsStatus returns the status view when the reply is an AcquirerStatusRes.
func (r *Response) AsStatus() (*StatusResponse, bool) {
	if r.kind != StatusRes {
		return nil, false
	}
	return &StatusResponse{r}, true
}

// AsError returns the error view when the reply is an AcquirerErrorRes.
func (r *Response) AsError() (*ErrorResponse, bool) {
	if r.kind != ErrorRes {
		return nil, false
	}
	return &ErrorResponse{r}, true
}

// query returns the elements matching path that live in the protocol
// namespace. A nil node searches the whole document.
func (r *Response) query(path string, node *etree.Element) []*etree.Element {
	var found []*etree.Element
	if node == nil {
		found = r.doc.FindElements(path)
	} else {
		found = node.FindElements(path)
	}
	out := found[:0]
	for _, el := range found {
		if el.NamespaceURI() == Namespace {
			out = append(out, el)
		}
	}
	return out
}

func (r *Response) single(path string, node *etree.Element) (*etree.Element, error) {
	found := r.query(path, node)
	if len(found) == 0 {
		return nil, newError(KindMalformedResponse, nil, "could not find node matching query %q", path)
	}
	return found[0], nil
}

func (r *Response) value(path string) (string, error) {
	el, err := r.single(path, nil)
	if err != nil {
		return "", err
	}
	return el.Text(), nil
}

func (r *Response) timestamp(path string) (time.Time, error) {
	v, err := r.value(path)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, newError(KindMalformedResponse, err, "timestamp at %q", path)
	}
	return t, nil
}

// DirectoryResponse lists the issuers grouped by country.
type DirectoryResponse struct {
	*Response
}

func (r *DirectoryResponse) AcquirerID() (string, error) {
	return r.value("//Acquirer/acquirerID")
}

// Countries returns the distinct country labels in document order.
func (r *DirectoryResponse) Countries() []string {
	var countries []string
	seen := make(map[string]bool)
	for _, el := range r.query("//Directory/Country/countryNames", nil) {
		name := el.Text()
		if !seen[name] {
			seen[name] = true
			countries = append(countries, name)
		}
	}
	return countries
}

// Issuers maps issuer code to display name for one country label.
func (r *DirectoryResponse) Issuers(country string) (map[string]string, error) {
	issuers := make(map[string]string)
	for _, c := range r.query("//Directory/Country", nil) {
		label, err := r.single("./countryNames", c)
		if err != nil || label.Text() != country {
			continue
		}
		for _, issuer := range r.query("./Issuer", c) {
			id, err := r.single("./issuerID", issuer)
			if err != nil {
				return nil, err
			}
			name, err := r.single("./issuerName", issuer)
			if err != nil {
				return nil, err
			}
			issuers[id.Text()] = name.Text()
		}
	}
	return issuers, nil
}

// AllIssuers maps every country label to its issuers.
func (r *DirectoryResponse) AllIssuers() (map[string]map[string]string, error) {
	all := make(map[string]map[string]string)
	for _, country := range r.Countries() {
		issuers, err := r.Issuers(country)
		if err != nil {
			return nil, err
		}
		all[country] = issuers
	}
	return all, nil
}

// TransactionResponse confirms a started transaction and carries the
// issuer redirect.
type TransactionResponse struct {
	*Response
}

func (r *TransactionResponse) AcquirerID() (string, error) {
	return r.value("//Acquirer/acquirerID")
}

func (r *TransactionResponse) TransactionID() (string, error) {
	return r.value("//Transaction/transactionID")
}

// AuthenticationURL is where the consumer must be redirected.
func (r *TransactionResponse) AuthenticationURL() (string, error) {
	return r.value("//Issuer/issuerAuthenticationURL")
}

func (r *TransactionResponse) TransactionCreatedAt() (time.Time, error) {
	return r.timestamp("//Transaction/transactionCreateDateTimestamp")
}

func (r *TransactionResponse) PurchaseID() (string, error) {
	return r.value("//Transaction/purchaseID")
}

// StatusResponse reports the state of a transaction.
type StatusResponse struct {
	*Response
}

func (r *StatusResponse) AcquirerID() (string, error) {
	return r.value("//Acquirer/acquirerID")
}

func (r *StatusResponse) TransactionID() (string, error) {
	return r.value("//Transaction/transactionID")
}

// Status is one of the Status* constants as sent by the acquirer.
func (r *StatusResponse) Status() (string, error) {
	return r.value("//Transaction/status")
}

func (r *StatusResponse) StatusAt() (time.Time, error) {
	return r.timestamp("//Transaction/statusDateTimestamp")
}

func (r *StatusResponse) ConsumerName() (string, error) {
	return r.value("//Transaction/consumerName")
}

func (r *StatusResponse) ConsumerIBAN() (string, error) {
	return r.value("//Transaction/consumerIBAN")
}

func (r *StatusResponse) ConsumerBIC() (string, error) {
	return r.value("//Transaction/consumerBIC")
}

// InternalAmount is the amount exactly as sent, e.g. "10.50".
func (r *StatusResponse) InternalAmount() (string, error) {
	return r.value("//Transaction/amount")
}

// Amount is the transaction amount in eurocents.
func (r *StatusResponse) Amount() (int64, error) {
	v, err := r.InternalAmount()
	if err != nil {
		return 0, err
	}
	cents, err := ParseAmount(v)
	if err != nil {
		return 0, newError(KindMalformedResponse, err, "status amount")
	}
	return cents, nil
}

func (r *StatusResponse) Currency() (string, error) {
	return r.value("//Transaction/currency")
}

// ErrorResponse is the acquirer's business error reply.
type ErrorResponse struct {
	*Response
}

func (r *ErrorResponse) ErrorCode() (string, error) {
	return r.value("//errorCode")
}

func (r *ErrorResponse) ErrorMessage() (string, error) {
	return r.value("//errorMessage")
}

func (r *ErrorResponse) ErrorDetail() (string, error) {
	return r.value("//errorDetail")
}

func (r *ErrorResponse) SuggestedAction() (string, error) {
	return r.value("//suggestedAction")
}

// ConsumerMessage is safe to show to the paying consumer.
func (r *ErrorResponse) ConsumerMessage() (string, error) {
	return r.value("//consumerMessage")
}
