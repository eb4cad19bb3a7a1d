package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"cinestore/internal/service"

	"github.com/gin-gonic/gin"
)

type PixWebhookHandler struct {
	svc *service.ReconcileService
}

func NewPixWebhookHandler(svc *service.ReconcileService) *PixWebhookHandler {
	return &PixWebhookHandler{svc: svc}
}

// Handle receives OndaPay payment notifications. Malformed payloads get
// 400 so the provider stops retrying them; internal faults get 500 so
// it retries later.
func (h *PixWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	log.Printf("[WEBHOOK] received: %s", string(body))

	var n service.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if err := h.svc.HandleNotification(n, body); err != nil {
		if errors.Is(err, service.ErrBadNotification) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "incomplete webhook data"})
			return
		}
		log.Printf("[WEBHOOK] processing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error processing webhook"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
