package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*YooKassaClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewYooKassa("shop-1", "secret-1")
	client.baseURL = srv.URL
	return client, srv
}

func TestCreatePayment(t *testing.T) {
	var gotBody yooKassaCreateBody
	var gotIdempotenceKey string

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "shop-1", user)
		assert.Equal(t, "secret-1", pass)

		gotIdempotenceKey = r.Header.Get("Idempotence-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "pay-123",
			"status": "pending",
			"confirmation": map[string]string{
				"type":             "redirect",
				"confirmation_url": "https://yookassa.example/checkout/pay-123",
			},
		})
	})
	defer srv.Close()

	payment, err := client.CreatePayment(context.Background(), CreateRequest{
		Amount:      300,
		Currency:    "RUB",
		Description: "Донат на Python Meetup",
		ReturnURL:   "https://t.me/meetup_bot",
		Metadata:    map[string]string{"user_id": "42", "event_id": "1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "pay-123", payment.ID)
	assert.Equal(t, "https://yookassa.example/checkout/pay-123", payment.ConfirmationURL)

	assert.NotEmpty(t, gotIdempotenceKey)
	assert.Equal(t, "300.00", gotBody.Amount.Value)
	assert.Equal(t, "RUB", gotBody.Amount.Currency)
	assert.True(t, gotBody.Capture)
	assert.Equal(t, "redirect", gotBody.Confirmation.Type)
	assert.Equal(t, "https://t.me/meetup_bot", gotBody.Confirmation.ReturnURL)
	assert.Equal(t, "42", gotBody.Metadata["user_id"])
}

func TestCreatePaymentFreshIdempotenceKeyPerAttempt(t *testing.T) {
	var keys []string

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotence-Key"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "pay-1",
			"status": "pending",
			"confirmation": map[string]string{
				"confirmation_url": "https://yookassa.example/checkout",
			},
		})
	})
	defer srv.Close()

	req := CreateRequest{Amount: 100, Currency: "RUB"}
	_, err := client.CreatePayment(context.Background(), req)
	require.NoError(t, err)
	_, err = client.CreatePayment(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestCreatePaymentAPIError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":        "invalid_request",
			"description": "Invalid shop credentials",
		})
	})
	defer srv.Close()

	_, err := client.CreatePayment(context.Background(), CreateRequest{Amount: 100, Currency: "RUB"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid shop credentials")
}

func TestCreatePaymentIncompleteResponse(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "pay-1", "status": "pending"})
	})
	defer srv.Close()

	_, err := client.CreatePayment(context.Background(), CreateRequest{Amount: 100, Currency: "RUB"})
	assert.Error(t, err)
}

func TestParseNotification(t *testing.T) {
	body := []byte(`{
		"type": "notification",
		"event": "payment.succeeded",
		"object": {"id": "pay-123", "status": "succeeded"}
	}`)

	notification, err := ParseNotification(body)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, notification.Event)
	assert.Equal(t, "pay-123", notification.Object.ID)

	_, err = ParseNotification([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseNotification([]byte(`{"event": "payment.succeeded", "object": {}}`))
	assert.Error(t, err)
}
