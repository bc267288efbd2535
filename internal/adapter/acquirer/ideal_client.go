package acquirer

import (
	"context"
	"fmt"

	"ideal-gateway/internal/core/domain"
	"ideal-gateway/internal/core/ports"
	"ideal-gateway/pkg/ideal"

	"github.com/rs/zerolog"
)

// IdealClient implements ports.AcquirerClient over an *ideal.Client.
type IdealClient struct {
	client *ideal.Client
	log    zerolog.Logger
}

// NewIdealClient creates an acquirer adapter.
func NewIdealClient(client *ideal.Client, log zerolog.Logger) *IdealClient {
	return &IdealClient{client: client, log: log}
}

// Directory fetches the issuer list and flattens it into the domain shape.
func (a *IdealClient) Directory(ctx context.Context) (*domain.Directory, error) {
	dir, err := a.client.Directory(ctx)
	if err != nil {
		return nil, err
	}

	acquirerID, err := dir.AcquirerID()
	if err != nil {
		return nil, err
	}
	issuers, err := dir.AllIssuers()
	if err != nil {
		return nil, err
	}
	fetchedAt, err := dir.CreatedAt()
	if err != nil {
		return nil, err
	}

	d := domain.NewDirectory(acquirerID, issuers, fetchedAt)
	a.log.Debug().
		Str("acquirer_id", acquirerID).
		Int("issuers", len(d.Issuers)).
		Msg("acquirer: directory fetched")
	return d, nil
}

// StartTransaction registers a payment and returns the redirect target.
func (a *IdealClient) StartTransaction(ctx context.Context, req ports.StartTransactionRequest) (*domain.Transaction, error) {
	trxReq, err := a.client.NewTransactionRequest(req.IssuerID, req.ReturnURL, req.PurchaseID, req.Amount, req.Description, req.ExpirationPeriod)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Send(ctx, trxReq)
	if err != nil {
		return nil, err
	}
	trx, ok := resp.AsTransaction()
	if !ok {
		return nil, fmt.Errorf("%w: expected %s, got %s", ideal.ErrUnrecognizedResponse, ideal.TransactionRes, resp.Kind())
	}

	id, err := trx.TransactionID()
	if err != nil {
		return nil, err
	}
	authURL, err := trx.AuthenticationURL()
	if err != nil {
		return nil, err
	}
	createdAt, err := trx.TransactionCreatedAt()
	if err != nil {
		return nil, err
	}

	a.log.Info().
		Str("transaction_id", id).
		Str("purchase_id", req.PurchaseID).
		Str("issuer_id", req.IssuerID).
		Int64("amount", req.Amount).
		Msg("acquirer: transaction started")

	return &domain.Transaction{
		ID:                id,
		PurchaseID:        trxReq.PurchaseID,
		IssuerID:          trxReq.Issuer,
		Amount:            trxReq.Amount,
		Currency:          trxReq.Currency,
		Description:       trxReq.Description,
		EntranceCode:      trxReq.EntranceCode,
		AuthenticationURL: authURL,
		ExpirationPeriod:  trxReq.ExpirationPeriod(),
		ExpiresAt:         trxReq.ExpiresAt(),
		CreatedAt:         createdAt,
	}, nil
}

// Status polls a transaction. Consumer and amount fields are only read for
// successful payments.
func (a *IdealClient) Status(ctx context.Context, transactionID string) (*domain.StatusReport, error) {
	status, err := a.client.TransactionStatus(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return statusReport(status)
}

func statusReport(s *ideal.StatusResponse) (*domain.StatusReport, error) {
	id, err := s.TransactionID()
	if err != nil {
		return nil, err
	}
	value, err := s.Status()
	if err != nil {
		return nil, err
	}
	at, err := s.StatusAt()
	if err != nil {
		return nil, err
	}

	report := &domain.StatusReport{
		TransactionID: id,
		Status:        domain.TransactionStatus(value),
		StatusAt:      at,
	}
	if !report.Status.IsSuccess() {
		return report, nil
	}

	if report.ConsumerName, err = s.ConsumerName(); err != nil {
		return nil, err
	}
	if report.ConsumerIBAN, err = s.ConsumerIBAN(); err != nil {
		return nil, err
	}
	if report.ConsumerBIC, err = s.ConsumerBIC(); err != nil {
		return nil, err
	}
	if report.Amount, err = s.Amount(); err != nil {
		return nil, err
	}
	if report.Currency, err = s.Currency(); err != nil {
		return nil, err
	}
	return report, nil
}
