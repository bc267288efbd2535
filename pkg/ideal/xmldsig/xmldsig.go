// Package xmldsig signs and verifies iDEAL messages with enveloped XML
// signatures: exclusive canonicalization, SHA-256 digests and RSA-SHA256.
package xmldsig

import (
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"

	"ideal-gateway/pkg/ideal"
	"ideal-gateway/pkg/ideal/keystore"
)

var (
	ErrNoSignature      = errors.New("xmldsig: signature element not found")
	ErrInvalidSignature = errors.New("xmldsig: signature invalid")
)

// keyPair adapts an ideal.KeyPair to dsig.X509KeyStore.
type keyPair struct {
	key  *rsa.PrivateKey
	cert *x509.Certificate
}

func (k keyPair) GetKeyPair() (*rsa.PrivateKey, []byte, error) {
	return k.key, k.cert.Raw, nil
}

// Signer implements ideal.Signer.
type Signer struct{}

func NewSigner() *Signer { return &Signer{} }

// Sign returns a copy of doc with a ds:Signature appended to the root. The
// KeyInfo carries only the KeyName thumbprint of the merchant certificate.
func (s *Signer) Sign(doc *etree.Document, key ideal.KeyPair) (*etree.Document, error) {
	if key.PrivateKey == nil || key.Certificate == nil {
		return nil, errors.New("xmldsig: key pair is incomplete")
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("xmldsig: document has no root")
	}

	ctx := dsig.NewDefaultSigningContext(keyPair{key: key.PrivateKey, cert: key.Certificate})
	ctx.Canonicalizer = dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList("")
	if err := ctx.SetSignatureMethod(dsig.RSASHA256SignatureMethod); err != nil {
		return nil, fmt.Errorf("xmldsig: %w", err)
	}

	signed, err := ctx.SignEnveloped(root.Copy())
	if err != nil {
		return nil, fmt.Errorf("xmldsig: sign: %w", err)
	}

	sig := signature(signed)
	if sig == nil {
		return nil, ErrNoSignature
	}
	if ki := child(sig, "KeyInfo"); ki != nil {
		sig.RemoveChild(ki)
	}
	prefix := ""
	if sig.Space != "" {
		prefix = sig.Space + ":"
	}
	sig.CreateElement(prefix + "KeyInfo").
		CreateElement(prefix + "KeyName").
		SetText(keystore.Thumbprint(key.Certificate))

	out := etree.NewDocument()
	out.WriteSettings = doc.WriteSettings
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok {
			out.CreateProcInst(pi.Target, pi.Inst)
		}
	}
	out.SetRoot(signed)
	return out, nil
}

// Verifier implements ideal.Verifier.
type Verifier struct{}

func NewVerifier() *Verifier { return &Verifier{} }

// Verify validates the enveloped signature of doc with cert. The KeyInfo
// hint is ignored; trust comes from cert alone.
func (v *Verifier) Verify(doc *etree.Document, cert *x509.Certificate) error {
	if cert == nil {
		return errors.New("xmldsig: no certificate to verify against")
	}
	root := doc.Root()
	if root == nil {
		return ErrNoSignature
	}
	el := root.Copy()
	sig := signature(el)
	if sig == nil {
		return ErrNoSignature
	}
	if ki := child(sig, "KeyInfo"); ki != nil {
		sig.RemoveChild(ki)
	}

	ctx := dsig.NewDefaultValidationContext(&dsig.MemoryX509CertificateStore{
		Roots: []*x509.Certificate{cert},
	})
	if _, err := ctx.Validate(el); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// signature finds the direct ds:Signature child of el.
func signature(el *etree.Element) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == "Signature" && c.NamespaceURI() == dsig.Namespace {
			return c
		}
	}
	return nil
}

func child(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}
