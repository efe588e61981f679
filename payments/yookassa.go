package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const yooKassaAPIURL = "https://api.yookassa.ru/v3"

type YooKassaClient struct {
	shopID     string
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewYooKassa(shopID, secretKey string) *YooKassaClient {
	return &YooKassaClient{
		shopID:    shopID,
		secretKey: secretKey,
		baseURL:   yooKassaAPIURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *YooKassaClient) Name() string { return "yookassa" }

type yooKassaAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type yooKassaConfirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type yooKassaCreateBody struct {
	Amount       yooKassaAmount       `json:"amount"`
	Confirmation yooKassaConfirmation `json:"confirmation"`
	Capture      bool                 `json:"capture"`
	Description  string               `json:"description"`
	Metadata     map[string]string    `json:"metadata,omitempty"`
}

type yooKassaPayment struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	Confirmation *yooKassaConfirmation `json:"confirmation"`
}

type yooKassaError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (c *YooKassaClient) CreatePayment(ctx context.Context, req CreateRequest) (*Payment, error) {
	body := yooKassaCreateBody{
		Amount: yooKassaAmount{
			Value:    fmt.Sprintf("%d.00", req.Amount),
			Currency: req.Currency,
		},
		Confirmation: yooKassaConfirmation{
			Type:      "redirect",
			ReturnURL: req.ReturnURL,
		},
		Capture:     true,
		Description: req.Description,
		Metadata:    req.Metadata,
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/payments", bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(c.shopID, c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	// A fresh key per attempt: retries of a failed attempt are new charges.
	httpReq.Header.Set("Idempotence-Key", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("yookassa request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr yooKassaError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Description != "" {
			return nil, fmt.Errorf("yookassa: %s (%s)", apiErr.Description, apiErr.Code)
		}
		return nil, fmt.Errorf("yookassa: unexpected status %d", resp.StatusCode)
	}

	var payment yooKassaPayment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("yookassa: could not parse response: %w", err)
	}
	if payment.ID == "" || payment.Confirmation == nil || payment.Confirmation.ConfirmationURL == "" {
		return nil, fmt.Errorf("yookassa: incomplete payment object in response")
	}

	return &Payment{
		ID:              payment.ID,
		Status:          payment.Status,
		ConfirmationURL: payment.Confirmation.ConfirmationURL,
	}, nil
}
