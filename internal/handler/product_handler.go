package handler

import (
	"net/http"
	"strconv"

	"cinestore/internal/models"
	"cinestore/internal/repository"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products *repository.ProductRepository
}

func NewProductHandler(products *repository.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

// List is public: the storefront reads the catalog without auth.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.ListOrdered()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

type createProductRequest struct {
	Title       string `json:"title"`
	Price       int64  `json:"price"` // minor currency units
	Image       string `json:"image"`
	Description string `json:"description"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Title == "" || req.Price <= 0 || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, price and image are required"})
		return
	}
	p := &models.Product{
		Title:       req.Title,
		PriceCents:  req.Price,
		Image:       req.Image,
		Description: req.Description,
	}
	if err := h.products.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create product"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	rows, err := h.products.Delete(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete product"})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

type reorderRequest struct {
	Order []uint `json:"order"`
}

// Reorder rewrites order_index following the id array's position.
func (h *ProductHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Order) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order array is required"})
		return
	}
	for i, id := range req.Order {
		if err := h.products.UpdateOrderIndex(id, i); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update product order"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "order updated"})
}
