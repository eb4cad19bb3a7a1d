package payment

import (
	"context"
	"time"
)

// ChargeRequest carries everything a provider needs to open a PIX charge.
type ChargeRequest struct {
	AmountCents   int64 // minor currency units
	ExternalID    string
	Description   string
	DueDate       time.Time
	PayerName     string
	PayerDocument string // CPF/CNPJ, may contain punctuation
	PayerEmail    string
	CallbackURL   string
}

// ChargeResponse is the provider's accepted-charge result.
type ChargeResponse struct {
	TransactionID string
	QRCodeText    string
	QRCodeBase64  string
}

// Provider abstracts the upstream PIX payment API.
type Provider interface {
	CreatePixCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
}

// AuthError means the provider rejected our credentials. Detail is for
// logs only and must never reach the client response.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	return "payment provider authentication failed"
}

// ProviderError means the provider rejected the charge for business
// reasons; Message is safe to surface to the caller.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}
