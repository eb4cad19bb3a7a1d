package repository

import (
	"time"

	"cinestore/internal/models"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(p *models.PurchaseRecord) error {
	return r.db.Create(p).Error
}

func (r *PurchaseRepository) Update(p *models.PurchaseRecord) error {
	return r.db.Save(p).Error
}

func (r *PurchaseRepository) FindByID(id uint) (*models.PurchaseRecord, error) {
	var p models.PurchaseRecord
	err := r.db.First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepository) FindByTransactionID(transactionID string) (*models.PurchaseRecord, error) {
	var p models.PurchaseRecord
	err := r.db.Where("transaction_id = ?", transactionID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountByPhoneSince counts purchase attempts for a phone number created
// at or after the cutoff. The attempt limiter derives its windows from
// this; counts are never stored separately.
func (r *PurchaseRepository) CountByPhoneSince(phone string, since time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.PurchaseRecord{}).
		Where("phone = ? AND created_at >= ?", phone, since).
		Count(&n).Error
	return n, err
}

// Search filters the ledger for the admin history view. Empty filters
// are ignored; results come back newest first.
func (r *PurchaseRepository) Search(name, phone string, from, to *time.Time) ([]models.PurchaseRecord, error) {
	q := r.db.Model(&models.PurchaseRecord{})
	if name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}
	if phone != "" {
		q = q.Where("phone = ?", phone)
	}
	if from != nil && to != nil {
		q = q.Where("created_at BETWEEN ? AND ?", *from, *to)
	}
	var records []models.PurchaseRecord
	err := q.Order("created_at DESC").Find(&records).Error
	return records, err
}
