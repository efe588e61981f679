package telegram

import (
	"fmt"
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

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	state.State.Database = db
	state.State.Logger = zap.NewNop()
	state.State.LocalLocation = time.UTC
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

func TestSpeakerMenuNoActiveTalks(t *testing.T) {
	setupTestDB(t)

	text, markup, err := speakerMenu(1)
	require.NoError(t, err)
	assert.Equal(t, "Сейчас нет активных докладов.", text)
	assert.Nil(t, markup)
	assert.Nil(t, conversations.Get(1))
}

func TestSpeakerMenuStartsSelection(t *testing.T) {
	db := setupTestDB(t)

	event := database.Event{Title: "Python Meetup", Date: time.Now().UTC(), IsActive: true}
	require.NoError(t, db.Create(&event).Error)

	speaker := database.Speaker{Name: "Alice"}
	speaker.TelegramUsername.String = "alice"
	speaker.TelegramUsername.Valid = true
	require.NoError(t, db.Create(&speaker).Error)
	require.NoError(t, db.Model(&speaker).Association("Events").Append(&event))

	now := time.Now().UTC()
	require.NoError(t, db.Create(&database.TimeSlot{
		EventID:   event.ID,
		SpeakerID: speaker.ID,
		StartTime: now.Add(-10 * time.Minute),
		EndTime:   now.Add(30 * time.Minute),
		Title:     "Доклад",
	}).Error)

	t.Cleanup(func() { conversations.Clear(1) })

	text, markup, err := speakerMenu(1)
	require.NoError(t, err)
	assert.Equal(t, "Кому хотите задать вопрос?", text)
	require.NotNil(t, markup)

	// Speaker button plus the back row.
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "Alice", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "ask_alice", markup.InlineKeyboard[0][0].CallbackData)

	session := conversations.Get(1)
	require.NotNil(t, session)
	assert.Equal(t, StepSelectingSpeaker, session.Step)
}

func TestTodayProgramText(t *testing.T) {
	db := setupTestDB(t)

	text, err := todayProgramText()
	require.NoError(t, err)
	assert.Equal(t, "Сейчас нет активных мероприятий", text)

	today := time.Now().UTC()
	event := database.Event{
		Title:    "Python Meetup",
		Date:     time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
		IsActive: true,
	}
	require.NoError(t, db.Create(&event).Error)

	text, err = todayProgramText()
	require.NoError(t, err)
	assert.Contains(t, text, "В этот день докладов нет.")
}
