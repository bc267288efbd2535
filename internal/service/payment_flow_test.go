package service_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ideal-gateway/internal/adapter/acquirer"
	httpHandler "ideal-gateway/internal/adapter/http/handler"
	"ideal-gateway/internal/adapter/http/middleware"
	redisStorage "ideal-gateway/internal/adapter/storage/redis"
	"ideal-gateway/internal/core/ports"
	"ideal-gateway/internal/service"
	"ideal-gateway/pkg/ideal"
	"ideal-gateway/pkg/ideal/idealtest"
	"ideal-gateway/pkg/ideal/xmldsig"

	"github.com/alicebob/miniredis/v2"
	"github.com/beevik/etree"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires the real HTTP layer, service, redis stores and iDEAL client
// against a stub acquirer that checks request signatures and signs replies.
type testApp struct {
	server   *httptest.Server
	redis    *miniredis.Miniredis
	requests atomic.Int32
}

func signed(signer *idealtest.Identity, reply string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(reply); err != nil {
		return nil, err
	}
	out, err := xmldsig.NewSigner().Sign(doc, ideal.KeyPair{PrivateKey: signer.Key, Certificate: signer.Cert})
	if err != nil {
		return nil, err
	}
	return out.WriteToBytes()
}

func newTestApp(t *testing.T, replySigner *idealtest.Identity, reply func(root string) string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	merchant := idealtest.NewIdentity(t, "merchant")
	acq := idealtest.NewIdentity(t, "acquirer")
	if replySigner == nil {
		replySigner = acq
	}

	app := &testApp{}
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.requests.Add(1)
		body, _ := io.ReadAll(r.Body)
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out := idealtest.ErrorXML("SO1000", "signature rejected")
		if err := xmldsig.NewVerifier().Verify(doc, merchant.Cert); err == nil {
			out = reply(doc.Root().Tag)
		}
		raw, err := signed(replySigner, out)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", ideal.ContentType)
		_, _ = w.Write(raw)
	}))
	t.Cleanup(stub.Close)

	client, err := ideal.New(ideal.Config{BaseURL: stub.URL, ExpirationPeriod: ideal.DefaultExpiration}, ideal.Merchant{
		ID:                  2000,
		PrivateKey:          merchant.Key,
		Certificate:         merchant.Cert,
		AcquirerCertificate: acq.Cert,
	}, xmldsig.NewSigner(), xmldsig.NewVerifier())
	require.NoError(t, err)

	app.redis = miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: app.redis.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zerolog.New(io.Discard)
	paymentSvc := service.NewPaymentService(
		acquirer.NewIdealClient(client, log),
		redisStorage.NewDirectoryCache(rdb),
		service.PaymentConfig{ReturnURL: "https://shop.example/return"},
		log,
	)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PaymentSvc:     paymentSvc,
		RateLimiter:    redisStorage.NewRateLimitStore(rdb),
		RateLimit:      middleware.RateLimitRule{Limit: 100, Window: time.Minute},
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Logger:         log,
	})
	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)
	return app
}

func defaultReplies(root string) string {
	switch root {
	case "DirectoryReq":
		return idealtest.DirectoryXML(
			idealtest.Issuer{Country: "Nederland", ID: "INGBNL2A", Name: "ING"},
			idealtest.Issuer{Country: "België", ID: "KBCBBE2B", Name: "KBC"},
		)
	case "AcquirerTrxReq":
		return idealtest.TransactionXML("0050000000000001", "https://bank.example/auth", "order1")
	default:
		return idealtest.StatusXML("0050000000000001", ideal.StatusSuccess)
	}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestPaymentFlow_HealthCheck(t *testing.T) {
	app := newTestApp(t, nil, defaultReplies)

	code, body := app.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
}

func TestPaymentFlow_IssuersAreCached(t *testing.T) {
	app := newTestApp(t, nil, defaultReplies)

	code, body := app.do(t, http.MethodGet, "/api/v1/issuers", nil)
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "0050", data["acquirer_id"])
	assert.Len(t, data["countries"], 2)
	assert.True(t, app.redis.Exists("ideal:directory"))

	code, _ = app.do(t, http.MethodGet, "/api/v1/issuers", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int32(1), app.requests.Load(), "second call served from cache")
}

func TestPaymentFlow_StartAndPoll(t *testing.T) {
	app := newTestApp(t, nil, defaultReplies)

	code, body := app.do(t, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"issuer_id":   "INGBNL2A",
		"purchase_id": "order1",
		"amount":      1050,
		"description": "Order 1",
	})
	require.Equal(t, http.StatusCreated, code, "body: %v", body)
	trx := body["data"].(map[string]interface{})
	assert.Equal(t, "0050000000000001", trx["transaction_id"])
	assert.Equal(t, "https://bank.example/auth", trx["authentication_url"])
	assert.Equal(t, "PT15M", trx["expiration_period"])
	assert.Len(t, trx["entrance_code"], 40)

	code, body = app.do(t, http.MethodGet, "/api/v1/transactions/0050000000000001/status", nil)
	require.Equal(t, http.StatusOK, code)
	status := body["data"].(map[string]interface{})
	assert.Equal(t, "Success", status["status"])
	assert.Equal(t, float64(1050), status["amount"])
	assert.Equal(t, "J. de Vries", status["consumer"].(map[string]interface{})["name"])
}

func TestPaymentFlow_UnknownIssuer(t *testing.T) {
	app := newTestApp(t, nil, defaultReplies)

	code, body := app.do(t, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"issuer_id":   "ABNANL2A",
		"purchase_id": "order1",
		"amount":      1050,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "PAY_003", body["error_code"])
}

func TestPaymentFlow_AcquirerError(t *testing.T) {
	app := newTestApp(t, nil, func(root string) string {
		if root == "DirectoryReq" {
			return defaultReplies(root)
		}
		return idealtest.ErrorXML("SO1100", "Issuer unavailable")
	})

	code, body := app.do(t, http.MethodGet, "/api/v1/transactions/0050000000000001/status", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "ACQ_001", body["error_code"])
	details := body["details"].(map[string]interface{})
	assert.Equal(t, "SO1100", details["acquirer_code"])
	assert.Equal(t, "Betalen met iDEAL is nu niet mogelijk.", details["consumer_message"])
}

func TestPaymentFlow_UntrustedAcquirer(t *testing.T) {
	app := newTestApp(t, idealtest.NewIdentity(t, "impostor"), defaultReplies)

	code, body := app.do(t, http.MethodGet, "/api/v1/issuers", nil)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "SEC_001", body["error_code"])
	assert.False(t, app.redis.Exists("ideal:directory"))
}
