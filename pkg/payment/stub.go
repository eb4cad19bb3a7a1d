package payment

import (
	"context"
	"fmt"
	"time"
)

// StubProvider is a no-op provider for local development without OndaPay
// credentials.
type StubProvider struct{}

func (s *StubProvider) CreatePixCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	id := fmt.Sprintf("stub_%d_%s", time.Now().UnixNano(), req.ExternalID)
	return &ChargeResponse{
		TransactionID: id,
		QRCodeText:    "00020126stubpixcopypaste",
		QRCodeBase64:  "",
	}, nil
}
