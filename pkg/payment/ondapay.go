package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"
)

// OndaPayProvider generates PIX charges via the OndaPay API. It keeps a
// single cached bearer token; the token has no local expiry tracking and
// is renewed when the deposit call comes back 401.
type OndaPayProvider struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	client       *http.Client

	mu    sync.Mutex
	token string
}

func NewOndaPayProvider(baseURL, clientID, clientSecret string) *OndaPayProvider {
	if baseURL == "" {
		baseURL = "https://api.ondapay.app"
	}
	return &OndaPayProvider{
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

type ondaPayLoginResp struct {
	Token string `json:"token"`
}

type ondaPayPayer struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
}

type ondaPayDepositReq struct {
	Amount      float64      `json:"amount"`
	ExternalID  string       `json:"external_id"`
	Webhook     string       `json:"webhook"`
	Description string       `json:"description"`
	DueDate     string       `json:"dueDate"`
	Payer       ondaPayPayer `json:"payer"`
}

type ondaPayDepositResp struct {
	IDTransaction string `json:"id_transaction"`
	QRCode        string `json:"qrcode"`
	QRCodeBase64  string `json:"qrcode_base64"`
}

// getToken returns the cached token, logging in first when the cache is
// empty or forceNew is set. The lock never spans the login call, so
// concurrent refreshes may overlap; last write wins.
func (p *OndaPayProvider) getToken(ctx context.Context, forceNew bool) (string, error) {
	p.mu.Lock()
	cached := p.token
	p.mu.Unlock()
	if cached != "" && !forceNew {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/v1/login", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("client_id", p.ClientID)
	req.Header.Set("client_secret", p.ClientSecret)
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		p.clearToken()
		return "", &AuthError{Detail: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		p.clearToken()
		log.Printf("[ONDAPAY] login failed: status=%d body=%s", resp.StatusCode, string(body))
		return "", &AuthError{Detail: fmt.Sprintf("login status %d", resp.StatusCode)}
	}
	var out ondaPayLoginResp
	if err := json.Unmarshal(body, &out); err != nil || out.Token == "" {
		p.clearToken()
		return "", &AuthError{Detail: "login response missing token"}
	}
	p.mu.Lock()
	p.token = out.Token
	p.mu.Unlock()
	log.Printf("[ONDAPAY] token obtained/renewed")
	return out.Token, nil
}

func (p *OndaPayProvider) clearToken() {
	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()
}

// CreatePixCharge submits a deposit/pix request. On a 401 it renews the
// token and retries exactly once; any other failure, or a failure of the
// retry, is returned as *ProviderError.
func (p *OndaPayProvider) CreatePixCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	payload := ondaPayDepositReq{
		Amount:      math.Round(float64(req.AmountCents)) / 100,
		ExternalID:  req.ExternalID,
		Webhook:     req.CallbackURL,
		Description: req.Description,
		DueDate:     req.DueDate.Format("2006-01-02 15:04:05"),
		Payer: ondaPayPayer{
			Name:     req.PayerName,
			Document: digitsOnly(req.PayerDocument),
			Email:    req.PayerEmail,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	token, err := p.getToken(ctx, false)
	if err != nil {
		return nil, err
	}
	status, respBody, err := p.postDeposit(ctx, token, body)
	if err != nil {
		return nil, &ProviderError{Message: "payment service unreachable"}
	}
	if status == http.StatusUnauthorized {
		log.Printf("[ONDAPAY] token expired, renewing and retrying")
		token, err = p.getToken(ctx, true)
		if err != nil {
			return nil, err
		}
		status, respBody, err = p.postDeposit(ctx, token, body)
		if err != nil {
			return nil, &ProviderError{Message: "payment service unreachable"}
		}
	}
	if status < 200 || status > 299 {
		log.Printf("[ONDAPAY] deposit rejected: status=%d body=%s", status, string(respBody))
		return nil, &ProviderError{StatusCode: status, Message: extractProviderMessage(respBody)}
	}

	var out ondaPayDepositResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &ProviderError{StatusCode: status, Message: "invalid payment service response"}
	}
	log.Printf("[ONDAPAY] pix charge created: id_transaction=%s external_id=%s", out.IDTransaction, req.ExternalID)
	return &ChargeResponse{
		TransactionID: out.IDTransaction,
		QRCodeText:    out.QRCode,
		QRCodeBase64:  out.QRCodeBase64,
	}, nil
}

func (p *OndaPayProvider) postDeposit(ctx context.Context, token string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/v1/deposit/pix", bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, nil
}

// extractProviderMessage pulls the first message out of OndaPay's
// {"msg": {...}} error mapping, falling back to a generic message.
func extractProviderMessage(body []byte) string {
	var parsed struct {
		Msg map[string]any `json:"msg"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, v := range parsed.Msg {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return "payment provider rejected the request"
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
