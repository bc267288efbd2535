package dto

// StartTransactionRequest is the request body for starting a payment.
// Purchase id and description follow the iDEAL field limits.
type StartTransactionRequest struct {
	IssuerID         string  `json:"issuer_id" binding:"required,bic"`
	PurchaseID       string  `json:"purchase_id" binding:"required,alphanum,max=16"`
	Amount           int64   `json:"amount" binding:"required,gt=0"`
	Description      string  `json:"description" binding:"max=32"`
	ReturnURL        *string `json:"return_url,omitempty" binding:"omitempty,max=512,safe_url"`
	ExpirationPeriod string  `json:"expiration_period,omitempty" binding:"omitempty,max=64,period"`
}

// TransactionURI binds the transaction id path parameter.
type TransactionURI struct {
	ID string `uri:"id" binding:"required,max=40,safe_id"`
}

// TransactionResponse is the response body for a started payment.
type TransactionResponse struct {
	TransactionID     string `json:"transaction_id"`
	PurchaseID        string `json:"purchase_id"`
	IssuerID          string `json:"issuer_id"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	Description       string `json:"description,omitempty"`
	EntranceCode      string `json:"entrance_code"`
	AuthenticationURL string `json:"authentication_url"`
	ExpirationPeriod  string `json:"expiration_period"`
	ExpiresAt         string `json:"expires_at"`
	CreatedAt         string `json:"created_at"`
}

// StatusResponse is the response body for a status poll.
type StatusResponse struct {
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	Final         bool      `json:"final"`
	StatusAt      string    `json:"status_at"`
	Consumer      *Consumer `json:"consumer,omitempty"`
	Amount        *int64    `json:"amount,omitempty"`
	Currency      string    `json:"currency,omitempty"`
}

// Consumer identifies the account that paid.
type Consumer struct {
	Name string `json:"name"`
	IBAN string `json:"iban"`
	BIC  string `json:"bic"`
}

// IssuersResponse is the response body for the issuer directory.
type IssuersResponse struct {
	AcquirerID string           `json:"acquirer_id"`
	FetchedAt  string           `json:"fetched_at"`
	Countries  []CountryIssuers `json:"countries"`
}

// CountryIssuers lists the issuers of one country.
type CountryIssuers struct {
	Country string   `json:"country"`
	Issuers []Issuer `json:"issuers"`
}

// Issuer is one selectable bank.
type Issuer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
