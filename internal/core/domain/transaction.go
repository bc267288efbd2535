package domain

import (
	"time"
)

// TransactionStatus is the state reported by the acquirer. Values are the
// literal iDEAL status strings.
type TransactionStatus string

const (
	TransactionStatusOpen      TransactionStatus = "Open"
	TransactionStatusSuccess   TransactionStatus = "Success"
	TransactionStatusCancelled TransactionStatus = "Cancelled"
	TransactionStatusExpired   TransactionStatus = "Expired"
	TransactionStatusFailure   TransactionStatus = "Failure"
)

// IsSuccess returns true only for the literal Success state.
func (s TransactionStatus) IsSuccess() bool {
	return s == TransactionStatusSuccess
}

// IsFinal returns true once the acquirer will no longer change the status.
func (s TransactionStatus) IsFinal() bool {
	switch s {
	case TransactionStatusSuccess, TransactionStatusCancelled, TransactionStatusExpired, TransactionStatusFailure:
		return true
	default:
		return false
	}
}

// Transaction is a payment started at the acquirer. The consumer completes
// it at AuthenticationURL.
type Transaction struct {
	ID                string    `json:"transaction_id"` // Assigned by the acquirer
	PurchaseID        string    `json:"purchase_id"`
	IssuerID          string    `json:"issuer_id"`
	Amount            int64     `json:"amount"` // In eurocents
	Currency          string    `json:"currency"`
	Description       string    `json:"description"`
	EntranceCode      string    `json:"entrance_code"`
	AuthenticationURL string    `json:"authentication_url"`
	ExpirationPeriod  string    `json:"expiration_period"` // ISO-8601
	ExpiresAt         time.Time `json:"expires_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// StatusReport is the acquirer's answer to a status poll. Consumer fields
// are only filled in for successful payments.
type StatusReport struct {
	TransactionID string            `json:"transaction_id"`
	Status        TransactionStatus `json:"status"`
	StatusAt      time.Time         `json:"status_at"`
	ConsumerName  string            `json:"consumer_name,omitempty"`
	ConsumerIBAN  string            `json:"consumer_iban,omitempty"`
	ConsumerBIC   string            `json:"consumer_bic,omitempty"`
	Amount        int64             `json:"amount,omitempty"`
	Currency      string            `json:"currency,omitempty"`
}
