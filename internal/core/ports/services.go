package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"

	"ideal-gateway/internal/core/domain"
)

// --- Acquirer Port ---

// AcquirerClient performs one signed exchange with the iDEAL acquirer per
// call. Failures are protocol errors from pkg/ideal.
type AcquirerClient interface {
	Directory(ctx context.Context) (*domain.Directory, error)
	StartTransaction(ctx context.Context, req StartTransactionRequest) (*domain.Transaction, error)
	Status(ctx context.Context, transactionID string) (*domain.StatusReport, error)
}

// --- Service Ports (Business Logic) ---

// PaymentService defines the gateway's payment operations.
type PaymentService interface {
	ListIssuers(ctx context.Context) (*domain.Directory, error)
	StartTransaction(ctx context.Context, req StartTransactionRequest) (*domain.Transaction, error)
	GetStatus(ctx context.Context, transactionID string) (*domain.StatusReport, error)
}

// StartTransactionRequest holds validated input for a new payment.
type StartTransactionRequest struct {
	IssuerID         string
	PurchaseID       string
	Amount           int64 // In eurocents
	Description      string
	ReturnURL        string // Empty means the configured merchant return URL
	ExpirationPeriod string // Empty means the client default
}
