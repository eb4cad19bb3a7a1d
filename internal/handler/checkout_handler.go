package handler

import (
	"errors"
	"net/http"

	"cinestore/internal/service"
	"cinestore/pkg/payment"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	svc *service.CheckoutService
}

func NewCheckoutHandler(svc *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type createSessionRequest struct {
	Value              int64  `json:"value"` // minor currency units
	Name               string `json:"name"`
	Phone              string `json:"phone"`
	Document           string `json:"document"`
	Email              string `json:"email"`
	ProductTitle       string `json:"product_title"`
	ProductDescription string `json:"product_description"`
}

// CreateSession generates a PIX QR code for a purchase attempt.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.svc.CreateSession(c.Request.Context(), service.SessionRequest{
		AmountCents:        req.Value,
		Name:               req.Name,
		Phone:              req.Phone,
		Document:           req.Document,
		Email:              req.Email,
		ProductTitle:       req.ProductTitle,
		ProductDescription: req.ProductDescription,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *CheckoutHandler) writeError(c *gin.Context, err error) {
	var authErr *payment.AuthError
	var provErr *payment.ProviderError
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields, including email, are required"})
	case errors.Is(err, service.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many payment attempts, contact your seller or try again in a few hours"})
	case errors.As(err, &authErr):
		// Credential details stay in the logs.
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not authenticate with the payment service"})
	case errors.As(err, &provErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": provErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error generating QR code"})
	}
}
