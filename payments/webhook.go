package payments

import (
	"encoding/json"
	"fmt"
)

const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentCanceled  = "payment.canceled"
)

// Notification is the payload YooKassa POSTs to the webhook endpoint.
type Notification struct {
	Type   string `json:"type"`
	Event  string `json:"event"`
	Object struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"object"`
}

func ParseNotification(body []byte) (*Notification, error) {
	var notification Notification
	if err := json.Unmarshal(body, &notification); err != nil {
		return nil, fmt.Errorf("could not parse notification body: %w", err)
	}
	if notification.Event == "" || notification.Object.ID == "" {
		return nil, fmt.Errorf("notification is missing event or payment id")
	}
	return &notification, nil
}
