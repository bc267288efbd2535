package ideal

import (
	"crypto/rsa"
	"crypto/x509"
	"net/http"

	"github.com/beevik/etree"
)

// KeyPair is the merchant signing identity.
type KeyPair struct {
	PrivateKey  *rsa.PrivateKey
	Certificate *x509.Certificate
}

// Signer attaches an enveloped signature to doc as the last child of its
// root and embeds the certificate thumbprint as the KeyName hint.
type Signer interface {
	Sign(doc *etree.Document, key KeyPair) (*etree.Document, error)
}

// Verifier checks the enveloped signature of doc against cert. A missing
// signature element is a verification failure.
type Verifier interface {
	Verify(doc *etree.Document, cert *x509.Certificate) error
}

// HTTPClient is the transport capability used to reach the acquirer.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
