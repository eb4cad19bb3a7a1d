package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cinestore/internal/models"
	"cinestore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memLedger struct {
	records map[uint]*models.PurchaseRecord
}

func newMemLedger() *memLedger {
	return &memLedger{records: make(map[uint]*models.PurchaseRecord)}
}

func (m *memLedger) FindByID(id uint) (*models.PurchaseRecord, error) {
	p, ok := m.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memLedger) FindByTransactionID(transactionID string) (*models.PurchaseRecord, error) {
	for _, p := range m.records {
		if p.TransactionID != nil && *p.TransactionID == transactionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memLedger) Update(p *models.PurchaseRecord) error {
	cp := *p
	m.records[p.ID] = &cp
	return nil
}

type memEvents struct{ count int }

func (m *memEvents) Create(e *models.WebhookEvent) error {
	m.count++
	return nil
}

func webhookTestServer(ledger *memLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewReconcileService(ledger, &memEvents{}, nil)
	r := gin.New()
	r.POST("/api/v1/webhooks/ondapay", NewPixWebhookHandler(svc).Handle)
	r.GET("/api/v1/payments/status/:transaction_id", NewStatusHandler(svc).Get)
	return r
}

func seedPurchase(ledger *memLedger) {
	tx := "tx-abc"
	ledger.records[1] = &models.PurchaseRecord{
		ID:            1,
		Name:          "Maria Silva",
		Phone:         "11999990000",
		Status:        models.StatusCreated,
		TransactionID: &tx,
		CreatedAt:     time.Now(),
	}
}

func TestWebhookHandlerSuccess(t *testing.T) {
	ledger := newMemLedger()
	seedPurchase(ledger)
	r := webhookTestServer(ledger)

	body := `{"status":"PAID_OUT","transaction_id":"tx-abc","external_id":"1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/ondapay", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	rec, err := ledger.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSucceeded, rec.Status)
}

func TestWebhookHandlerMissingStatusIsClientFault(t *testing.T) {
	ledger := newMemLedger()
	seedPurchase(ledger)
	r := webhookTestServer(ledger)

	body := `{"transaction_id":"tx-abc","external_id":"1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/ondapay", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	rec, _ := ledger.FindByID(1)
	assert.Equal(t, models.StatusCreated, rec.Status, "ledger untouched on rejected payloads")
}

func TestWebhookHandlerMalformedJSON(t *testing.T) {
	r := webhookTestServer(newMemLedger())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/ondapay", strings.NewReader("{not json"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusHandlerUnknownTransaction(t *testing.T) {
	r := webhookTestServer(newMemLedger())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/status/never-seen", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"never-seen","status":"Created"}`, w.Body.String())
}

func TestStatusHandlerReflectsReconciledState(t *testing.T) {
	ledger := newMemLedger()
	seedPurchase(ledger)
	r := webhookTestServer(ledger)

	// Before the webhook: Created.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments/status/tx-abc", nil))
	assert.JSONEq(t, `{"id":"tx-abc","status":"Created"}`, w.Body.String())

	body := `{"status":"PAID_OUT","transaction_id":"tx-abc","external_id":"1"}`
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/ondapay", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments/status/tx-abc", nil))
	assert.JSONEq(t, `{"id":"tx-abc","status":"Succeeded"}`, w.Body.String())
}
