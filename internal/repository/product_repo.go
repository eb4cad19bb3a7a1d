package repository

import (
	"cinestore/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) ListOrdered() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("order_index ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

// Delete removes a product and reports how many rows matched, so the
// handler can 404 on unknown ids.
func (r *ProductRepository) Delete(id uint) (int64, error) {
	res := r.db.Delete(&models.Product{}, id)
	return res.RowsAffected, res.Error
}

func (r *ProductRepository) UpdateOrderIndex(id uint, index int) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).Update("order_index", index).Error
}
