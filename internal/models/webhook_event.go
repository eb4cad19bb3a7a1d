package models

import "time"

// WebhookEvent is an audit row for every provider notification we
// receive, including ones that don't change the ledger.
type WebhookEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EventID       string    `gorm:"size:36;uniqueIndex;not null" json:"event_id"`
	TransactionID string    `gorm:"size:64;index" json:"transaction_id"`
	ExternalID    string    `gorm:"size:64" json:"external_id"`
	Status        string    `gorm:"size:32" json:"status"`
	Payload       string    `gorm:"type:text" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
