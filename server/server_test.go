package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meetup-bot/database"
	"meetup-bot/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	state.State.Database = db
	state.State.Logger = zap.NewNop()
	require.NoError(t, database.AutoMigrate())

	t.Cleanup(func() {
		sqlDb, err := db.DB()
		if err == nil {
			sqlDb.Close()
		}
		state.State.Database = nil
	})

	return db
}

func seedPendingDonation(t *testing.T, db *gorm.DB, paymentID string) database.Donation {
	t.Helper()

	event := database.Event{Title: "Python Meetup", Date: time.Now(), IsActive: true}
	require.NoError(t, db.Create(&event).Error)
	participant := database.Participant{TelegramID: 42, Name: "Alice"}
	require.NoError(t, db.Create(&participant).Error)

	donation := database.Donation{
		EventID:       event.ID,
		ParticipantID: participant.ID,
		Amount:        300,
		PaymentID:     paymentID,
		Status:        database.DonationStatusPending,
	}
	require.NoError(t, db.Create(&donation).Error)
	return donation
}

func postNotification(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/yookassa", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandlePaymentWebhook(rec, req)
	return rec
}

func TestWebhookConfirmsDonation(t *testing.T) {
	db := setupTest(t)
	donation := seedPendingDonation(t, db, "pay-123")

	rec := postNotification(t, `{
		"type": "notification",
		"event": "payment.succeeded",
		"object": {"id": "pay-123", "status": "succeeded"}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got database.Donation
	require.NoError(t, db.First(&got, donation.ID).Error)
	assert.Equal(t, database.DonationStatusConfirmed, got.Status)
}

func TestWebhookCancelsDonation(t *testing.T) {
	db := setupTest(t)
	donation := seedPendingDonation(t, db, "pay-456")

	rec := postNotification(t, `{
		"type": "notification",
		"event": "payment.canceled",
		"object": {"id": "pay-456", "status": "canceled"}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got database.Donation
	require.NoError(t, db.First(&got, donation.ID).Error)
	assert.Equal(t, database.DonationStatusCanceled, got.Status)
}

func TestWebhookUnknownPaymentAcknowledged(t *testing.T) {
	setupTest(t)

	rec := postNotification(t, `{
		"type": "notification",
		"event": "payment.succeeded",
		"object": {"id": "pay-missing", "status": "succeeded"}
	}`)

	// Acknowledged so the provider stops retrying; nothing to update.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown")
}

func TestWebhookMalformedBody(t *testing.T) {
	setupTest(t)

	rec := postNotification(t, "not json at all")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookIgnoresUnhandledEvents(t *testing.T) {
	db := setupTest(t)
	donation := seedPendingDonation(t, db, "pay-789")

	rec := postNotification(t, `{
		"type": "notification",
		"event": "refund.succeeded",
		"object": {"id": "pay-789", "status": "succeeded"}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got database.Donation
	require.NoError(t, db.First(&got, donation.ID).Error)
	assert.Equal(t, database.DonationStatusPending, got.Status)
}

func TestWebhookRejectsGet(t *testing.T) {
	setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/webhooks/yookassa", nil)
	rec := httptest.NewRecorder()
	HandlePaymentWebhook(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
