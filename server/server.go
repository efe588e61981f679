package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"meetup-bot/database"
	"meetup-bot/payments"
	"meetup-bot/state"
	"meetup-bot/utils"

	"go.uber.org/zap"
)

// New builds the HTTP server that receives payment notifications from the
// provider. Only the webhook confirms a donation.
func New(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhooks/yookassa", HandlePaymentWebhook)

	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}

func HandlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	logger := state.State.Logger

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "could not read body", http.StatusBadRequest)
		return
	}

	notification, err := payments.ParseNotification(body)
	if err != nil {
		logger.Warn("discarding malformed payment notification",
			zap.Error(err),
		)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var status string
	switch notification.Event {
	case payments.EventPaymentSucceeded:
		status = database.DonationStatusConfirmed
	case payments.EventPaymentCanceled:
		status = database.DonationStatusCanceled
	default:
		// Unhandled event types are acknowledged so the provider stops
		// retrying them.
		writeOk(w, notification.Object.ID, "ignored")
		return
	}

	donation, err := database.DonationSetStatusByPayment(notification.Object.ID, status)
	if err != nil {
		if errors.Is(err, database.ErrDonationNotFound) {
			logger.Warn("payment notification for unknown donation",
				zap.String("payment_id", notification.Object.ID),
				zap.String("event", notification.Event),
			)
			writeOk(w, notification.Object.ID, "unknown")
			return
		}
		logger.Error("failed to update donation from payment notification",
			zap.String("payment_id", notification.Object.ID),
			zap.Error(err),
		)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	logger.Info("donation status updated by provider notification",
		zap.Uint("donation_id", donation.ID),
		zap.Int64("amount", donation.Amount),
		zap.String("status", donation.Status),
	)
	logger.Sync()

	if bot := state.State.TelegramBot; bot != nil {
		text := "✅ Оплата прошла успешно. Спасибо за поддержку!"
		if status == database.DonationStatusCanceled {
			text = "❌ Оплата отменена."
		}
		go func(chatID int64) {
			if err := utils.TgSendTextById(bot, chatID, text); err != nil {
				logger.Warn("failed to notify donor about payment status",
					zap.Uint("donation_id", donation.ID),
					zap.Error(err),
				)
			}
		}(donation.Participant.TelegramID)
	}

	writeOk(w, notification.Object.ID, donation.Status)
}

func writeOk(w http.ResponseWriter, paymentID, status string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":         true,
		"payment_id": paymentID,
		"status":     status,
	})
}
