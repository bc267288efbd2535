package ideal

import (
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

// fakeSigner appends an empty Signature element and counts calls.
type fakeSigner struct {
	calls int
	err   error
}

func (s *fakeSigner) Sign(doc *etree.Document, _ KeyPair) (*etree.Document, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := doc.Copy()
	out.Root().CreateElement("Signature")
	return out, nil
}

// fakeVerifier returns err for every document and counts calls.
type fakeVerifier struct {
	calls int
	err   error
}

func (v *fakeVerifier) Verify(*etree.Document, *x509.Certificate) error {
	v.calls++
	return v.err
}

var errBadSignature = errors.New("digest mismatch")

var fixedNow = time.Date(2026, time.October, 14, 10, 0, 0, 123_000_000, time.UTC)

func testMerchant() Merchant {
	return Merchant{
		ID:                  2000,
		SubID:               0,
		PrivateKey:          &rsa.PrivateKey{},
		Certificate:         &x509.Certificate{},
		AcquirerCertificate: &x509.Certificate{},
	}
}

func newTestClient(t *testing.T, cfg Config, signer Signer, verifier Verifier, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	c, err := New(cfg, testMerchant(), signer, verifier, opts...)
	require.NoError(t, err)
	return c
}

// recorded is one request seen by an acquirerStub.
type recorded struct {
	Path        string
	ContentType string
	Body        *etree.Document
}

// acquirerStub serves a fixed reply body and records the requests.
type acquirerStub struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recorded
	status   int
	reply    string
}

func newAcquirerStub(t *testing.T, reply string) *acquirerStub {
	t.Helper()
	stub := &acquirerStub{status: http.StatusOK, reply: reply}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		doc := etree.NewDocument()
		_ = doc.ReadFromBytes(body)

		stub.mu.Lock()
		stub.requests = append(stub.requests, recorded{Path: r.URL.Path, ContentType: r.Header.Get("Content-Type"), Body: doc})
		status, reply := stub.status, stub.reply
		stub.mu.Unlock()

		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(stub.Close)
	return stub
}

func (s *acquirerStub) last(t *testing.T) recorded {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.requests)
	return s.requests[len(s.requests)-1]
}
