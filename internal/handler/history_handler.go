package handler

import (
	"net/http"
	"strconv"
	"time"

	"cinestore/internal/repository"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	purchases *repository.PurchaseRepository
}

func NewHistoryHandler(purchases *repository.PurchaseRepository) *HistoryHandler {
	return &HistoryHandler{purchases: purchases}
}

// List searches the purchase ledger for the admin panel. Filters:
// name (substring), phone (exact), month+year (both required to apply).
func (h *HistoryHandler) List(c *gin.Context) {
	name := c.Query("name")
	phone := c.Query("phone")

	var from, to *time.Time
	monthStr, yearStr := c.Query("month"), c.Query("year")
	if monthStr != "" && yearStr != "" {
		month, mErr := strconv.Atoi(monthStr)
		year, yErr := strconv.Atoi(yearStr)
		if mErr != nil || yErr != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month or year"})
			return
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		from, to = &start, &end
	}

	records, err := h.purchases.Search(name, phone, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch purchase history"})
		return
	}
	c.JSON(http.StatusOK, records)
}
