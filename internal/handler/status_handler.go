package handler

import (
	"net/http"

	"cinestore/internal/service"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	svc *service.ReconcileService
}

func NewStatusHandler(svc *service.ReconcileService) *StatusHandler {
	return &StatusHandler{svc: svc}
}

// Get reports the locally reconciled status for a provider transaction
// id. Unknown ids answer Created, not an error, so clients can poll
// right after checkout.
func (h *StatusHandler) Get(c *gin.Context) {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction id required"})
		return
	}
	result, err := h.svc.GetStatus(transactionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check local status"})
		return
	}
	c.JSON(http.StatusOK, result)
}
