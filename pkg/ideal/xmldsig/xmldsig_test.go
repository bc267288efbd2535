package xmldsig_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideal-gateway/pkg/ideal"
	"ideal-gateway/pkg/ideal/idealtest"
	"ideal-gateway/pkg/ideal/keystore"
	"ideal-gateway/pkg/ideal/xmldsig"
)

func parse(t *testing.T, s string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(s))
	return doc
}

func signXML(t *testing.T, id *idealtest.Identity, s string) string {
	t.Helper()
	signed, err := xmldsig.NewSigner().Sign(parse(t, s), ideal.KeyPair{PrivateKey: id.Key, Certificate: id.Cert})
	require.NoError(t, err)
	out, err := signed.WriteToString()
	require.NoError(t, err)
	return out
}

func TestSign_AppendsSignatureWithKeyName(t *testing.T) {
	id := idealtest.NewIdentity(t, "merchant")
	doc := parse(t, idealtest.StatusXML("0050000000000001", ideal.StatusSuccess))

	signed, err := xmldsig.NewSigner().Sign(doc, ideal.KeyPair{PrivateKey: id.Key, Certificate: id.Cert})
	require.NoError(t, err)

	children := signed.Root().ChildElements()
	last := children[len(children)-1]
	assert.Equal(t, "Signature", last.Tag)

	keyName := signed.FindElement("//Signature/KeyInfo/KeyName")
	require.NotNil(t, keyName)
	assert.Equal(t, keystore.Thumbprint(id.Cert), keyName.Text())

	method := signed.FindElement("//Signature/SignedInfo/CanonicalizationMethod")
	require.NotNil(t, method)
	assert.Equal(t, "http://www.w3.org/2001/10/xml-exc-c14n#", method.SelectAttrValue("Algorithm", ""))

	// the input document stays untouched
	assert.Nil(t, doc.FindElement("//Signature"))
}

func TestSign_IncompleteKeyPair(t *testing.T) {
	_, err := xmldsig.NewSigner().Sign(parse(t, idealtest.ErrorXML("SO1000", "x")), ideal.KeyPair{})
	assert.Error(t, err)
}

func TestVerify_RoundTrip(t *testing.T) {
	id := idealtest.NewIdentity(t, "acquirer")
	signed := signXML(t, id, idealtest.DirectoryXML(idealtest.Issuer{Country: "Nederland", ID: "INGBNL2A", Name: "ING"}))

	err := xmldsig.NewVerifier().Verify(parse(t, signed), id.Cert)
	assert.NoError(t, err)
}

func TestVerify_Failures(t *testing.T) {
	acquirer := idealtest.NewIdentity(t, "acquirer")
	other := idealtest.NewIdentity(t, "other")
	signed := signXML(t, acquirer, idealtest.StatusXML("0050000000000001", ideal.StatusSuccess))

	tests := []struct {
		name string
		doc  string
		cert func() *idealtest.Identity
		want error
	}{
		{
			name: "unsigned",
			doc:  idealtest.StatusXML("0050000000000001", ideal.StatusSuccess),
			cert: func() *idealtest.Identity { return acquirer },
			want: xmldsig.ErrNoSignature,
		},
		{
			name: "tampered",
			doc:  strings.Replace(signed, "<status>Success</status>", "<status>Cancelled</status>", 1),
			cert: func() *idealtest.Identity { return acquirer },
			want: xmldsig.ErrInvalidSignature,
		},
		{
			name: "wrong certificate",
			doc:  signed,
			cert: func() *idealtest.Identity { return other },
			want: xmldsig.ErrInvalidSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := xmldsig.NewVerifier().Verify(parse(t, tt.doc), tt.cert().Cert)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// acquirer answers every request with a reply signed by id, after
// checking the request signature against the merchant certificate.
func acquirer(t *testing.T, id, merchant *idealtest.Identity, reply func(root string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := xmldsig.NewVerifier().Verify(doc, merchant.Cert); err != nil {
			w.Header().Set("Content-Type", ideal.ContentType)
			_, _ = io.WriteString(w, signXML(t, id, idealtest.ErrorXML("SO1000", "signature rejected")))
			return
		}
		w.Header().Set("Content-Type", ideal.ContentType)
		_, _ = io.WriteString(w, signXML(t, id, reply(doc.Root().Tag)))
	}))
}

func newClient(t *testing.T, url string, merchant, acq *idealtest.Identity, cfg ideal.Config) *ideal.Client {
	t.Helper()
	cfg.BaseURL = url
	client, err := ideal.New(cfg, ideal.Merchant{
		ID:                  2000,
		PrivateKey:          merchant.Key,
		Certificate:         merchant.Cert,
		AcquirerCertificate: acq.Cert,
	}, xmldsig.NewSigner(), xmldsig.NewVerifier())
	require.NoError(t, err)
	return client
}

func TestClient_EndToEnd(t *testing.T) {
	merchant := idealtest.NewIdentity(t, "merchant")
	acq := idealtest.NewIdentity(t, "acquirer")

	srv := acquirer(t, acq, merchant, func(root string) string {
		switch root {
		case "DirectoryReq":
			return idealtest.DirectoryXML(
				idealtest.Issuer{Country: "Nederland", ID: "INGBNL2A", Name: "ING"},
				idealtest.Issuer{Country: "België", ID: "KBCBBE2B", Name: "KBC"},
			)
		case "AcquirerTrxReq":
			return idealtest.TransactionXML("0050000000000001", "https://bank.example/auth", "order-1")
		default:
			return idealtest.StatusXML("0050000000000001", ideal.StatusSuccess)
		}
	})
	defer srv.Close()

	client := newClient(t, srv.URL, merchant, acq, ideal.Config{})
	ctx := context.Background()

	issuers, err := client.Issuers(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]string{
		"Nederland": {"INGBNL2A": "ING"},
		"België":    {"KBCBBE2B": "KBC"},
	}, issuers)

	trx, err := client.StartTransaction(ctx, "INGBNL2A", "https://shop.example/return", "order-1", 1050, "Order 1", "")
	require.NoError(t, err)
	assert.True(t, trx.IsVerified())
	authURL, err := trx.AuthenticationURL()
	require.NoError(t, err)
	assert.Equal(t, "https://bank.example/auth", authURL)

	status, err := client.TransactionStatus(ctx, "0050000000000001")
	require.NoError(t, err)
	s, err := status.Status()
	require.NoError(t, err)
	assert.Equal(t, ideal.StatusSuccess, s)
}

func TestClient_EndToEnd_UntrustedAcquirer(t *testing.T) {
	merchant := idealtest.NewIdentity(t, "merchant")
	acq := idealtest.NewIdentity(t, "acquirer")
	impostor := idealtest.NewIdentity(t, "impostor")

	srv := acquirer(t, impostor, merchant, func(string) string {
		return idealtest.StatusXML("0050000000000001", ideal.StatusSuccess)
	})
	defer srv.Close()

	client := newClient(t, srv.URL, merchant, acq, ideal.Config{})
	_, err := client.TransactionStatus(context.Background(), "0050000000000001")
	assert.ErrorIs(t, err, ideal.ErrSignature)
}

func TestClient_EndToEnd_RejectedRequestSignature(t *testing.T) {
	merchant := idealtest.NewIdentity(t, "merchant")
	registered := idealtest.NewIdentity(t, "registered")
	acq := idealtest.NewIdentity(t, "acquirer")

	srv := acquirer(t, acq, registered, func(string) string {
		return idealtest.StatusXML("0050000000000001", ideal.StatusSuccess)
	})
	defer srv.Close()

	client := newClient(t, srv.URL, merchant, acq, ideal.Config{})
	_, err := client.TransactionStatus(context.Background(), "0050000000000001")

	var respErr *ideal.ResponseError
	require.ErrorAs(t, err, &respErr)
	code, _ := respErr.ErrorCode()
	assert.Equal(t, "SO1000", code)
	assert.True(t, respErr.IsVerified())
}

func TestClient_EndToEnd_ContentAfterSignedRoot(t *testing.T) {
	merchant := idealtest.NewIdentity(t, "merchant")
	acq := idealtest.NewIdentity(t, "acquirer")
	signed := signXML(t, acq, idealtest.StatusXML("0050000000000001", ideal.StatusSuccess))

	for name, tail := range map[string]string{
		"second root": `<AcquirerStatusRes>junk</AcquirerStatusRes>`,
		"text":        `not xml`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", ideal.ContentType)
				_, _ = io.WriteString(w, signed+tail)
			}))
			defer srv.Close()

			client := newClient(t, srv.URL, merchant, acq, ideal.Config{})
			resp, err := client.TransactionStatus(context.Background(), "0050000000000001")
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ideal.ErrMalformedResponse)
		})
	}
}
