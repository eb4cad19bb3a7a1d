package service

import (
	"context"
	"errors"
	"log"
	"strconv"

	"cinestore/config"
	"cinestore/internal/models"
	"cinestore/pkg/clock"
	"cinestore/pkg/payment"
)

var ErrValidation = errors.New("missing required fields")

// PurchaseStore is the ledger surface the checkout flow writes through.
type PurchaseStore interface {
	Create(p *models.PurchaseRecord) error
	Update(p *models.PurchaseRecord) error
}

// SessionRequest is a client's request to open a PIX payment session.
// Amounts are integer minor-currency units (centavos).
type SessionRequest struct {
	AmountCents        int64
	Name               string
	Phone              string
	Document           string
	Email              string
	ProductTitle       string
	ProductDescription string
}

// PaymentSession is the client-facing result of a successful checkout.
type PaymentSession struct {
	TransactionID       string `json:"id"`
	QRCodeText          string `json:"qr_code"`
	QRCodeBase64        string `json:"qr_code_base64"`
	ExpirationTimestamp int64  `json:"expiration_timestamp"` // unix millis
}

// CheckoutService orchestrates a payment session: attempt limiting,
// ledger write, provider charge, transaction id write-back.
type CheckoutService struct {
	purchases PurchaseStore
	provider  payment.Provider
	limiter   *AttemptLimiter
	clock     clock.Clock
	cfg       config.OndaPayConfig
	feed      EventFeed
}

func NewCheckoutService(
	purchases PurchaseStore,
	provider payment.Provider,
	limiter *AttemptLimiter,
	clk clock.Clock,
	cfg config.OndaPayConfig,
	feed EventFeed,
) *CheckoutService {
	return &CheckoutService{
		purchases: purchases,
		provider:  provider,
		limiter:   limiter,
		clock:     clk,
		cfg:       cfg,
		feed:      feed,
	}
}

// CreateSession runs the full checkout flow. The ledger row is written
// before the provider call; if the provider fails, the row stays behind
// with a null transaction id so the attempt remains auditable and keeps
// counting against the phone's caps.
func (s *CheckoutService) CreateSession(ctx context.Context, req SessionRequest) (*PaymentSession, error) {
	if req.AmountCents <= 0 || req.Name == "" || req.Phone == "" || req.Document == "" || req.Email == "" {
		return nil, ErrValidation
	}

	if err := s.limiter.Check(req.Phone); err != nil {
		return nil, err
	}

	record := &models.PurchaseRecord{
		Name:      req.Name,
		Phone:     req.Phone,
		Status:    models.StatusCreated,
		CreatedAt: s.clock.Now(),
	}
	if err := s.purchases.Create(record); err != nil {
		return nil, err
	}

	expiresAt := s.clock.Now().Add(s.cfg.ChargeExpiry)
	description := req.ProductTitle + " - " + req.ProductDescription
	charge, err := s.provider.CreatePixCharge(ctx, payment.ChargeRequest{
		AmountCents:   req.AmountCents,
		ExternalID:    strconv.FormatUint(uint64(record.ID), 10),
		Description:   description,
		DueDate:       expiresAt,
		PayerName:     req.Name,
		PayerDocument: req.Document,
		PayerEmail:    req.Email,
		CallbackURL:   s.cfg.WebhookURL,
	})
	if err != nil {
		log.Printf("[CHECKOUT] provider call failed for purchase %d: %v", record.ID, err)
		return nil, err
	}

	txID := charge.TransactionID
	record.TransactionID = &txID
	if err := s.purchases.Update(record); err != nil {
		return nil, err
	}
	log.Printf("[CHECKOUT] pix session created: purchase=%d transaction=%s", record.ID, txID)

	if s.feed != nil {
		s.feed.Broadcast(map[string]any{
			"type":           "session_created",
			"purchase_id":    record.ID,
			"transaction_id": txID,
			"name":           record.Name,
			"status":         record.Status,
		})
	}

	return &PaymentSession{
		TransactionID:       txID,
		QRCodeText:          charge.QRCodeText,
		QRCodeBase64:        charge.QRCodeBase64,
		ExpirationTimestamp: expiresAt.UnixMilli(),
	}, nil
}
