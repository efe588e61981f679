package database

import (
	"fmt"
	"testing"
	"time"

	"meetup-bot/state"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	state.State.Database = db
	require.NoError(t, AutoMigrate())

	t.Cleanup(func() {
		sqlDb, err := db.DB()
		if err == nil {
			sqlDb.Close()
		}
		state.State.Database = nil
	})

	return db
}

func makeEvent(t *testing.T, db *gorm.DB, title string, active bool) Event {
	t.Helper()

	event := Event{
		Title:    title,
		Date:     time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		IsActive: active,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func makeSpeaker(t *testing.T, db *gorm.DB, name, username string, events ...Event) Speaker {
	t.Helper()

	speaker := Speaker{Name: name}
	if username != "" {
		speaker.TelegramUsername.String = username
		speaker.TelegramUsername.Valid = true
	}
	require.NoError(t, db.Create(&speaker).Error)
	if len(events) > 0 {
		require.NoError(t, db.Model(&speaker).Association("Events").Append(&events))
	}
	return speaker
}
