package ideal

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ideal-gateway/pkg/ideal/keystore"
)

// Config holds the acquirer endpoints and the exchange policy. BaseURL is
// used for every request kind whose own URL is empty.
type Config struct {
	BaseURL        string
	TransactionURL string
	StatusURL      string
	DirectoryURL   string
	ProxyURL       string

	// DisableVerification turns off TLS peer checks and reply signature
	// checks. Sandbox use only.
	DisableVerification bool
	DisableAutoVerify   bool
	FailOnNonSuccess    bool

	// ExpirationPeriod is the default for new transactions, e.g. "30 minutes".
	ExpirationPeriod string
	Timeout          time.Duration
}

// Merchant is the merchant identity and the trusted acquirer certificate.
type Merchant struct {
	ID                  int64
	SubID               int
	PrivateKey          *rsa.PrivateKey
	Certificate         *x509.Certificate
	AcquirerCertificate *x509.Certificate
}

// Options is the structured configuration of a merchant. Key values are
// inline PEM or file paths.
type Options struct {
	AcquirerCertificate string `validate:"required"`
	MerchantID          int64  `validate:"required,gt=0"`
	MerchantSubID       *int   `validate:"required,gte=0"`
	MerchantCertificate string `validate:"required"`
	MerchantPrivateKey  string `validate:"required"`
	Passphrase          string

	TransactionURL string `validate:"omitempty,url"`
	StatusURL      string `validate:"omitempty,url"`
	DirectoryURL   string `validate:"omitempty,url"`
}

var validate = validator.New()

// LoadOptions validates o, loads its key material and applies the endpoint
// overrides to cfg. Nothing touches the network.
func LoadOptions(o Options, cfg Config) (Merchant, Config, error) {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return Merchant{}, cfg, newError(KindConfiguration, err, "missing or invalid: %s", strings.Join(fields, ", "))
		}
		return Merchant{}, cfg, newError(KindConfiguration, err, "options")
	}

	acquirer, err := keystore.LoadCertificate(o.AcquirerCertificate)
	if err != nil {
		return Merchant{}, cfg, newError(KindConfiguration, err, "acquirer certificate")
	}
	cert, err := keystore.LoadCertificate(o.MerchantCertificate)
	if err != nil {
		return Merchant{}, cfg, newError(KindConfiguration, err, "merchant certificate")
	}
	key, err := keystore.LoadPrivateKey(o.MerchantPrivateKey, o.Passphrase)
	if err != nil {
		return Merchant{}, cfg, newError(KindConfiguration, err, "merchant private key")
	}

	if o.TransactionURL != "" {
		cfg.TransactionURL = o.TransactionURL
	}
	if o.StatusURL != "" {
		cfg.StatusURL = o.StatusURL
	}
	if o.DirectoryURL != "" {
		cfg.DirectoryURL = o.DirectoryURL
	}

	return Merchant{
		ID:                  o.MerchantID,
		SubID:               *o.MerchantSubID,
		PrivateKey:          key,
		Certificate:         cert,
		AcquirerCertificate: acquirer,
	}, cfg, nil
}

// Client speaks the acquirer protocol for one merchant.
type Client struct {
	cfg      Config
	merchant Merchant
	signer   Signer
	verifier Verifier
	http     HTTPClient
	log      zerolog.Logger
	now      func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport built from Config.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithClock sets the time source for timestamps and expiration periods.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a Client. All merchant key material must be present.
func New(cfg Config, m Merchant, signer Signer, verifier Verifier, opts ...Option) (*Client, error) {
	switch {
	case m.ID <= 0:
		return nil, newError(KindConfiguration, nil, "merchant id is required")
	case m.SubID < 0:
		return nil, newError(KindConfiguration, nil, "merchant sub id must not be negative")
	case m.PrivateKey == nil:
		return nil, newError(KindConfiguration, nil, "merchant private key is required")
	case m.Certificate == nil:
		return nil, newError(KindConfiguration, nil, "merchant certificate is required")
	case m.AcquirerCertificate == nil:
		return nil, newError(KindConfiguration, nil, "acquirer certificate is required")
	case signer == nil || verifier == nil:
		return nil, newError(KindConfiguration, nil, "signer and verifier are required")
	}
	if cfg.ExpirationPeriod == "" {
		cfg.ExpirationPeriod = DefaultExpiration
	}
	if _, err := ParsePeriod(cfg.ExpirationPeriod); err != nil {
		return nil, newError(KindConfiguration, err, "default expiration period")
	}

	c := &Client{
		cfg:      cfg,
		merchant: m,
		signer:   signer,
		verifier: verifier,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		h, err := newHTTPClient(cfg)
		if err != nil {
			return nil, err
		}
		c.http = h
	}
	return c, nil
}

// Config returns the client configuration.
func (c *Client) Config() Config { return c.cfg }

func (c *Client) NewDirectoryRequest() *DirectoryRequest {
	return &DirectoryRequest{newMessage(DirectoryReq, c.merchant, c.now())}
}

// NewTransactionRequest prepares a payment in euros with Dutch as the
// consumer language and a fresh entrance code. An empty period selects the
// configured default.
func (c *Client) NewTransactionRequest(issuer, returnURL, purchaseID string, amount int64, description, period string) (*TransactionRequest, error) {
	req := &TransactionRequest{
		message:      newMessage(TransactionReq, c.merchant, c.now()),
		Issuer:       issuer,
		ReturnURL:    returnURL,
		PurchaseID:   purchaseID,
		Amount:       amount,
		Currency:     EUR,
		Language:     Dutch,
		Description:  description,
		EntranceCode: NewEntranceCode(),
		now:          c.now,
	}
	if period == "" {
		period = c.cfg.ExpirationPeriod
	}
	if err := req.SetExpirationPeriod(period); err != nil {
		return nil, err
	}
	return req, nil
}

func (c *Client) NewStatusRequest(transactionID string) *StatusRequest {
	return &StatusRequest{
		message:       newMessage(StatusReq, c.merchant, c.now()),
		TransactionID: transactionID,
	}
}

// NewEntranceCode returns a 40 character alphanumeric anti-replay token.
func NewEntranceCode() string {
	code := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	return code[:40]
}

// Sign adds the request payload and signs the document. Signing an already
// signed request is a no-op.
func (c *Client) Sign(req Request) error {
	m := req.base()
	if m.signed {
		return nil
	}
	if !m.prepared {
		if err := req.preSign(); err != nil {
			return err
		}
		m.prepared = true
	}

	signed, err := c.signer.Sign(m.doc, KeyPair{PrivateKey: c.merchant.PrivateKey, Certificate: c.merchant.Certificate})
	if err != nil {
		return newError(KindSignature, err, "sign %s", m.kind)
	}
	m.doc = signed
	m.root = signed.Root()
	m.signed = true
	return nil
}

// Send signs req if needed, posts it and classifies the reply. Acquirer
// error replies come back as *ResponseError; with FailOnNonSuccess a status
// other than Success comes back as *NoSuccessError.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	if !req.IsSigned() {
		if err := c.Sign(req); err != nil {
			return nil, err
		}
	}
	raw, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.dispatch(req, raw.Body)
}

// Directory fetches the issuer directory.
func (c *Client) Directory(ctx context.Context) (*DirectoryResponse, error) {
	resp, err := c.Send(ctx, c.NewDirectoryRequest())
	if err != nil {
		return nil, err
	}
	dir, ok := resp.AsDirectory()
	if !ok {
		return nil, newError(KindUnrecognizedResponse, nil, "expected %s, got %s", DirectoryRes, resp.Kind())
	}
	return dir, nil
}

// Issuers fetches the directory and groups issuers by country.
func (c *Client) Issuers(ctx context.Context) (map[string]map[string]string, error) {
	dir, err := c.Directory(ctx)
	if err != nil {
		return nil, err
	}
	return dir.AllIssuers()
}

// StartTransaction creates and sends a transaction in one call.
func (c *Client) StartTransaction(ctx context.Context, issuer, returnURL, purchaseID string, amount int64, description, period string) (*TransactionResponse, error) {
	req, err := c.NewTransactionRequest(issuer, returnURL, purchaseID, amount, description, period)
	if err != nil {
		return nil, err
	}
	resp, err := c.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	trx, ok := resp.AsTransaction()
	if !ok {
		return nil, newError(KindUnrecognizedResponse, nil, "expected %s, got %s", TransactionRes, resp.Kind())
	}
	return trx, nil
}

// TransactionStatus polls a transaction.
func (c *Client) TransactionStatus(ctx context.Context, transactionID string) (*StatusResponse, error) {
	resp, err := c.Send(ctx, c.NewStatusRequest(transactionID))
	if err != nil {
		return nil, err
	}
	status, ok := resp.AsStatus()
	if !ok {
		return nil, newError(KindUnrecognizedResponse, nil, "expected %s, got %s", StatusRes, resp.Kind())
	}
	return status, nil
}
