package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := StartTransactionRequest{
		IssuerID:    "  INGBNL2A  ",
		PurchaseID:  " order42 ",
		Description: " Order 42 ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "INGBNL2A", req.IssuerID)
	assert.Equal(t, "order42", req.PurchaseID)
	assert.Equal(t, "Order 42", req.Description)
}

func TestSanitizeStruct_StripsControlCharacters(t *testing.T) {
	req := StartTransactionRequest{Description: "Order\n42\x00 & more"}
	SanitizeStruct(&req)

	assert.Equal(t, "Order42 & more", req.Description)
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	url := "  https://shop.example/return  "
	req := StartTransactionRequest{ReturnURL: &url}
	SanitizeStruct(&req)

	assert.Equal(t, "https://shop.example/return", *req.ReturnURL)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := StartTransactionRequest{IssuerID: "INGBNL2A"}
	SanitizeStruct(&req)
	assert.Nil(t, req.ReturnURL)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"0050000000000001",
		"REF_002",
		"a.b.c",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"ref 001",  // space
		"ref<001>", // angle brackets
		"ref;DROP", // semicolon
		"",         // empty
		"ref\n001", // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func validRequest() StartTransactionRequest {
	return StartTransactionRequest{
		IssuerID:    "INGBNL2A",
		PurchaseID:  "order42",
		Amount:      1050,
		Description: "Order 42",
	}
}

func TestStartTransactionRequest_Valid(t *testing.T) {
	url := "https://shop.example/return"
	req := validRequest()
	req.ReturnURL = &url
	req.ExpirationPeriod = "30 minutes"

	assert.NoError(t, binding.Validator.ValidateStruct(&req))
}

func TestStartTransactionRequest_Invalid(t *testing.T) {
	badURL := "javascript:alert(1)"
	tests := []struct {
		name   string
		mutate func(*StartTransactionRequest)
	}{
		{"missing issuer", func(r *StartTransactionRequest) { r.IssuerID = "" }},
		{"issuer not a BIC", func(r *StartTransactionRequest) { r.IssuerID = "ING" }},
		{"purchase id too long", func(r *StartTransactionRequest) { r.PurchaseID = "order4200000000000" }},
		{"purchase id not alphanumeric", func(r *StartTransactionRequest) { r.PurchaseID = "order-42" }},
		{"zero amount", func(r *StartTransactionRequest) { r.Amount = 0 }},
		{"description too long", func(r *StartTransactionRequest) { r.Description = "An order description over 32 chars" }},
		{"unsafe return url", func(r *StartTransactionRequest) { r.ReturnURL = &badURL }},
		{"unknown period", func(r *StartTransactionRequest) { r.ExpirationPeriod = "a fortnight" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			require.Error(t, binding.Validator.ValidateStruct(&req))
		})
	}
}
