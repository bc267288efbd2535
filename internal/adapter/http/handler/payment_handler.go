package handler

import (
	"time"

	"ideal-gateway/internal/adapter/http/dto"
	"ideal-gateway/internal/core/domain"
	"ideal-gateway/internal/core/ports"
	"ideal-gateway/pkg/apperror"
	"ideal-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles the iDEAL payment endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// ListIssuers handles GET /api/v1/issuers.
func (h *PaymentHandler) ListIssuers(c *gin.Context) {
	dir, err := h.paymentSvc.ListIssuers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toIssuersResponse(dir))
}

// StartTransaction handles POST /api/v1/transactions.
func (h *PaymentHandler) StartTransaction(c *gin.Context) {
	var req dto.StartTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	in := ports.StartTransactionRequest{
		IssuerID:         req.IssuerID,
		PurchaseID:       req.PurchaseID,
		Amount:           req.Amount,
		Description:      req.Description,
		ExpirationPeriod: req.ExpirationPeriod,
	}
	if req.ReturnURL != nil {
		in.ReturnURL = *req.ReturnURL
	}

	trx, err := h.paymentSvc.StartTransaction(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toTransactionResponse(trx))
}

// GetStatus handles GET /api/v1/transactions/:id/status.
func (h *PaymentHandler) GetStatus(c *gin.Context) {
	var uri dto.TransactionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	report, err := h.paymentSvc.GetStatus(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toStatusResponse(report))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// toIssuersResponse groups the flat directory by country.
func toIssuersResponse(dir *domain.Directory) dto.IssuersResponse {
	resp := dto.IssuersResponse{
		AcquirerID: dir.AcquirerID,
		FetchedAt:  formatTime(dir.FetchedAt),
		Countries:  []dto.CountryIssuers{},
	}
	for _, is := range dir.Issuers {
		n := len(resp.Countries)
		if n == 0 || resp.Countries[n-1].Country != is.Country {
			resp.Countries = append(resp.Countries, dto.CountryIssuers{Country: is.Country})
			n++
		}
		resp.Countries[n-1].Issuers = append(resp.Countries[n-1].Issuers, dto.Issuer{ID: is.ID, Name: is.Name})
	}
	return resp
}

func toTransactionResponse(trx *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID:     trx.ID,
		PurchaseID:        trx.PurchaseID,
		IssuerID:          trx.IssuerID,
		Amount:            trx.Amount,
		Currency:          trx.Currency,
		Description:       trx.Description,
		EntranceCode:      trx.EntranceCode,
		AuthenticationURL: trx.AuthenticationURL,
		ExpirationPeriod:  trx.ExpirationPeriod,
		ExpiresAt:         formatTime(trx.ExpiresAt),
		CreatedAt:         formatTime(trx.CreatedAt),
	}
}

func toStatusResponse(r *domain.StatusReport) dto.StatusResponse {
	resp := dto.StatusResponse{
		TransactionID: r.TransactionID,
		Status:        string(r.Status),
		Final:         r.Status.IsFinal(),
		StatusAt:      formatTime(r.StatusAt),
	}
	if r.Status.IsSuccess() {
		amount := r.Amount
		resp.Amount = &amount
		resp.Currency = r.Currency
		resp.Consumer = &dto.Consumer{
			Name: r.ConsumerName,
			IBAN: r.ConsumerIBAN,
			BIC:  r.ConsumerBIC,
		}
	}
	return resp
}
