package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://api.ondapay.test"

func testProvider() *OndaPayProvider {
	return NewOndaPayProvider(testBaseURL, "test-client", "test-secret")
}

func testChargeRequest() ChargeRequest {
	return ChargeRequest{
		AmountCents:   1000,
		ExternalID:    "7",
		Description:   "Premium Plan - monthly",
		DueDate:       time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC),
		PayerName:     "Maria Silva",
		PayerDocument: "123.456.789-09",
		PayerEmail:    "maria@example.com",
		CallbackURL:   "https://store.example.com/api/v1/webhooks/ondapay",
	}
}

func mockLogin(token string) {
	gock.New(testBaseURL).
		Post("/api/v1/login").
		MatchHeader("client_id", "test-client").
		MatchHeader("client_secret", "test-secret").
		Reply(200).
		JSON(map[string]string{"token": token})
}

func TestCreatePixChargePayload(t *testing.T) {
	defer gock.Off()
	mockLogin("token-a")
	// 1000 centavos must go over the wire as 10.00; the document loses
	// its punctuation; dueDate is the fixed-width provider format.
	gock.New(testBaseURL).
		Post("/api/v1/deposit/pix").
		MatchHeader("Authorization", "Bearer token-a").
		JSON(map[string]interface{}{
			"amount":      10.00,
			"external_id": "7",
			"webhook":     "https://store.example.com/api/v1/webhooks/ondapay",
			"description": "Premium Plan - monthly",
			"dueDate":     "2026-08-28 12:30:00",
			"payer": map[string]interface{}{
				"name":     "Maria Silva",
				"document": "12345678909",
				"email":    "maria@example.com",
			},
		}).
		Reply(200).
		JSON(map[string]string{
			"id_transaction": "tx-123",
			"qrcode":         "00020126pixcopypaste",
			"qrcode_base64":  "aGVsbG8=",
		})

	resp, err := testProvider().CreatePixCharge(context.Background(), testChargeRequest())
	require.NoError(t, err)
	assert.Equal(t, "tx-123", resp.TransactionID)
	assert.Equal(t, "00020126pixcopypaste", resp.QRCodeText)
	assert.Equal(t, "aGVsbG8=", resp.QRCodeBase64)
	assert.True(t, gock.IsDone())
}

func TestCreatePixChargeReusesToken(t *testing.T) {
	defer gock.Off()
	mockLogin("token-a")
	gock.New(testBaseURL).
		Post("/api/v1/deposit/pix").
		MatchHeader("Authorization", "Bearer token-a").
		Times(2).
		Reply(200).
		JSON(map[string]string{"id_transaction": "tx-1", "qrcode": "q", "qrcode_base64": ""})

	p := testProvider()
	_, err := p.CreatePixCharge(context.Background(), testChargeRequest())
	require.NoError(t, err)
	_, err = p.CreatePixCharge(context.Background(), testChargeRequest())
	require.NoError(t, err)
	assert.True(t, gock.IsDone(), "second charge must not log in again")
}

func TestCreatePixChargeRetriesOnceOn401(t *testing.T) {
	defer gock.Off()
	mockLogin("token-a")
	gock.New(testBaseURL).
		Post("/api/v1/deposit/pix").
		Reply(401).
		JSON(map[string]string{"error": "token expired"})
	mockLogin("token-b")
	gock.New(testBaseURL).
		Post("/api/v1/deposit/pix").
		MatchHeader("Authorization", "Bearer token-b").
		Reply(200).
		JSON(map[string]string{"id_transaction": "tx-retry", "qrcode": "q", "qrcode_base64": ""})

	resp, err := testProvider().CreatePixCharge(context.Background(), testChargeRequest())
	require.NoError(t, err)
	assert.Equal(t, "tx-retry", resp.TransactionID, "transaction id comes from the retried attempt")
	assert.True(t, gock.IsDone())
}

func TestCreatePixChargeProviderMessage(t *testing.T) {
	defer gock.Off()
	mockLogin("token-a")
	gock.New(testBaseURL).
		Post("/api/v1/deposit/pix").
		Reply(400).
		JSON(map[string]interface{}{"msg": map[string]string{"amount": "invalid amount"}})

	_, err := testProvider().CreatePixCharge(context.Background(), testChargeRequest())
	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, "invalid amount", provErr.Message)
	assert.Equal(t, 400, provErr.StatusCode)
}

func TestCreatePixChargeProviderMessageFallback(t *testing.T) {
	defer gock.Off()
	mockLogin("token-a")
	gock.New(testBaseURL).
		Post("/api/v1/deposit/pix").
		Reply(500).
		BodyString("gateway exploded")

	_, err := testProvider().CreatePixCharge(context.Background(), testChargeRequest())
	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, "payment provider rejected the request", provErr.Message)
}

func TestLoginFailureSurfacesAuthError(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Post("/api/v1/login").
		Reply(401).
		JSON(map[string]string{"error": "invalid credentials"})

	_, err := testProvider().CreatePixCharge(context.Background(), testChargeRequest())
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.NotContains(t, err.Error(), "test-secret", "credentials must never leak through the error")
}

func TestLoginFailureClearsCachedToken(t *testing.T) {
	defer gock.Off()
	mockLogin("token-a")
	gock.New(testBaseURL).
		Post("/api/v1/deposit/pix").
		Reply(401).
		JSON(map[string]string{"error": "token expired"})
	gock.New(testBaseURL).
		Post("/api/v1/login").
		Reply(503).
		BodyString("maintenance")
	// After the failed refresh the cache is empty, so the next charge
	// logs in from scratch.
	mockLogin("token-c")
	gock.New(testBaseURL).
		Post("/api/v1/deposit/pix").
		MatchHeader("Authorization", "Bearer token-c").
		Reply(200).
		JSON(map[string]string{"id_transaction": "tx-2", "qrcode": "q", "qrcode_base64": ""})

	p := testProvider()
	_, err := p.CreatePixCharge(context.Background(), testChargeRequest())
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))

	resp, err := p.CreatePixCharge(context.Background(), testChargeRequest())
	require.NoError(t, err)
	assert.Equal(t, "tx-2", resp.TransactionID)
	assert.True(t, gock.IsDone())
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "12345678909", digitsOnly("123.456.789-09"))
	assert.Equal(t, "", digitsOnly("abc-/."))
	assert.Equal(t, "42", digitsOnly("4 2"))
}
