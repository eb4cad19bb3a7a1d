package models

import "time"

// Purchase statuses. The ledger only ever moves forward
// (Created -> Succeeded); provider statuses we don't recognize are kept
// in the webhook audit trail and never touch the ledger.
const (
	StatusCreated   = "Created"
	StatusSucceeded = "Succeeded"
)

// PurchaseRecord is one purchase attempt. A row is written before the
// provider is called, so failed attempts stay auditable and count
// against the per-phone attempt caps. Rows are never deleted.
type PurchaseRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Phone         string    `gorm:"size:32;not null;index" json:"phone"`
	Status        string    `gorm:"size:20;not null;index" json:"status"`
	TransactionID *string   `gorm:"size:64;uniqueIndex" json:"transaction_id"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PurchaseRecord) TableName() string {
	return "purchase_history"
}
