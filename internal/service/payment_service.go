package service

import (
	"context"
	"time"

	"ideal-gateway/internal/core/domain"
	"ideal-gateway/internal/core/ports"
	"ideal-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// DefaultDirectoryTTL follows the acquirer guidance of refreshing the
// directory at most once a day.
const DefaultDirectoryTTL = 24 * time.Hour

// PaymentConfig holds the merchant defaults applied by the service.
type PaymentConfig struct {
	ReturnURL    string
	DirectoryTTL time.Duration
}

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	acquirer ports.AcquirerClient
	cache    ports.DirectoryCache
	cfg      PaymentConfig
	log      zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	acquirer ports.AcquirerClient,
	cache ports.DirectoryCache,
	cfg PaymentConfig,
	log zerolog.Logger,
) *PaymentServiceImpl {
	if cfg.DirectoryTTL <= 0 {
		cfg.DirectoryTTL = DefaultDirectoryTTL
	}
	return &PaymentServiceImpl{
		acquirer: acquirer,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

// ListIssuers returns the cached directory, fetching it from the acquirer on
// a miss. Cache failures fall through to the acquirer.
func (s *PaymentServiceImpl) ListIssuers(ctx context.Context) (*domain.Directory, error) {
	dir, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("directory cache read failed, falling through to acquirer")
	}
	if dir != nil {
		return dir, nil
	}

	dir, err = s.acquirer.Directory(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("directory request failed")
		return nil, apperror.FromIdeal(err)
	}

	if err := s.cache.Set(ctx, dir, s.cfg.DirectoryTTL); err != nil {
		s.log.Warn().Err(err).Msg("directory cache write failed")
	}

	s.log.Info().
		Str("acquirer_id", dir.AcquirerID).
		Int("issuers", len(dir.Issuers)).
		Msg("directory refreshed")
	return dir, nil
}

// StartTransaction validates the request against the directory and starts
// the payment at the acquirer.
func (s *PaymentServiceImpl) StartTransaction(ctx context.Context, req ports.StartTransactionRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.ReturnURL == "" {
		req.ReturnURL = s.cfg.ReturnURL
	}
	if req.ReturnURL == "" {
		return nil, apperror.Validation("return_url is required")
	}

	dir, err := s.ListIssuers(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := dir.Find(req.IssuerID); !ok {
		return nil, apperror.ErrUnknownIssuer(req.IssuerID)
	}

	trx, err := s.acquirer.StartTransaction(ctx, req)
	if err != nil {
		s.log.Error().Err(err).
			Str("purchase_id", req.PurchaseID).
			Str("issuer_id", req.IssuerID).
			Msg("transaction request failed")
		return nil, apperror.FromIdeal(err)
	}

	s.log.Info().
		Str("transaction_id", trx.ID).
		Str("purchase_id", trx.PurchaseID).
		Int64("amount", trx.Amount).
		Time("expires_at", trx.ExpiresAt).
		Msg("transaction started")
	return trx, nil
}

// GetStatus polls the acquirer for the current transaction status.
func (s *PaymentServiceImpl) GetStatus(ctx context.Context, transactionID string) (*domain.StatusReport, error) {
	if transactionID == "" {
		return nil, apperror.Validation("transaction id is required")
	}

	report, err := s.acquirer.Status(ctx, transactionID)
	if err != nil {
		s.log.Error().Err(err).Str("transaction_id", transactionID).Msg("status request failed")
		return nil, apperror.FromIdeal(err)
	}

	s.log.Info().
		Str("transaction_id", report.TransactionID).
		Str("status", string(report.Status)).
		Msg("status retrieved")
	return report, nil
}
