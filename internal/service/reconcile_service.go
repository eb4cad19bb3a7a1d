package service

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"cinestore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBadNotification = errors.New("incomplete webhook payload")

// successSentinel is the provider status that confirms a PIX payment.
const successSentinel = "PAID_OUT"

// LedgerStore is the ledger surface reconciliation reads and writes.
type LedgerStore interface {
	FindByID(id uint) (*models.PurchaseRecord, error)
	FindByTransactionID(transactionID string) (*models.PurchaseRecord, error)
	Update(p *models.PurchaseRecord) error
}

// EventStore records every webhook delivery for operator visibility.
type EventStore interface {
	Create(e *models.WebhookEvent) error
}

// Notification is the provider's webhook payload.
type Notification struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	ExternalID    string `json:"external_id"`
}

// StatusResult is the client-facing polling answer.
type StatusResult struct {
	TransactionID string `json:"id"`
	Status        string `json:"status"`
}

// ReconcileService applies asynchronous provider notifications to the
// ledger and answers status polls.
type ReconcileService struct {
	purchases LedgerStore
	events    EventStore
	feed      EventFeed
}

func NewReconcileService(purchases LedgerStore, events EventStore, feed EventFeed) *ReconcileService {
	return &ReconcileService{purchases: purchases, events: events, feed: feed}
}

// HandleNotification reconciles one webhook delivery. It is idempotent:
// redelivering a success notification leaves the record Succeeded with
// no error. ErrBadNotification means the payload itself is malformed
// and the provider should not retry; any other error is a transient
// internal fault the caller should surface as a server fault so the
// provider does retry.
func (s *ReconcileService) HandleNotification(n Notification, raw []byte) error {
	if n.Status == "" || n.TransactionID == "" || n.ExternalID == "" {
		log.Printf("[WEBHOOK] incomplete payload: %s", string(raw))
		return ErrBadNotification
	}

	s.audit(n, raw)

	if !strings.EqualFold(n.Status, successSentinel) {
		log.Printf("[WEBHOOK] status %q for transaction %s: no action", n.Status, n.TransactionID)
		return nil
	}

	purchaseID, err := strconv.ParseUint(n.ExternalID, 10, 64)
	if err != nil {
		log.Printf("[WEBHOOK] external_id %q is not a valid purchase id", n.ExternalID)
		return ErrBadNotification
	}

	record, err := s.purchases.FindByID(uint(purchaseID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unresolvable notification; acknowledge so the provider
			// stops retrying.
			log.Printf("[WEBHOOK] no purchase record for external_id %s", n.ExternalID)
			return nil
		}
		return err
	}

	if record.Status == models.StatusSucceeded {
		log.Printf("[WEBHOOK] purchase %d already Succeeded, redelivery ignored", record.ID)
		return nil
	}

	record.Status = models.StatusSucceeded
	if err := s.purchases.Update(record); err != nil {
		return err
	}
	log.Printf("[WEBHOOK] purchase %d marked Succeeded (transaction %s)", record.ID, n.TransactionID)

	if s.feed != nil {
		s.feed.Broadcast(map[string]any{
			"type":           "payment_succeeded",
			"purchase_id":    record.ID,
			"transaction_id": n.TransactionID,
			"status":         record.Status,
		})
	}
	return nil
}

// GetStatus answers a client poll by provider transaction id. Unknown
// ids report Created rather than an error: clients may poll before the
// provider call has been reconciled, or for ids that never resolved.
func (s *ReconcileService) GetStatus(transactionID string) (*StatusResult, error) {
	record, err := s.purchases.FindByTransactionID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[STATUS] no purchase for transaction %s, reporting Created", transactionID)
			return &StatusResult{TransactionID: transactionID, Status: models.StatusCreated}, nil
		}
		return nil, err
	}
	return &StatusResult{TransactionID: transactionID, Status: record.Status}, nil
}

// audit is best effort: a failed audit write is logged, never fatal to
// the acknowledgment path.
func (s *ReconcileService) audit(n Notification, raw []byte) {
	if s.events == nil {
		return
	}
	err := s.events.Create(&models.WebhookEvent{
		EventID:       uuid.NewString(),
		TransactionID: n.TransactionID,
		ExternalID:    n.ExternalID,
		Status:        n.Status,
		Payload:       string(raw),
	})
	if err != nil {
		log.Printf("[WEBHOOK] audit write failed: %v", err)
	}
}
