package utils

import (
	"fmt"
	"testing"

	"meetup-bot/database"
	"meetup-bot/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestSpeakerFuzzyFind(t *testing.T) {
	db := setupTestDB(t)

	alice := database.Speaker{Name: "Alice Ivanova"}
	alice.TelegramUsername.String = "alice_iv"
	alice.TelegramUsername.Valid = true
	require.NoError(t, db.Create(&alice).Error)

	require.NoError(t, db.Create(&database.Speaker{Name: "Boris Petrov"}).Error)

	found, err := SpeakerFuzzyFind("alice")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Alice Ivanova", found[0].Name)

	// Username matches too, and a speaker is reported once.
	found, err = SpeakerFuzzyFind("alice_iv")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Alice Ivanova", found[0].Name)

	found, err = SpeakerFuzzyFind("nobody-here")
	require.NoError(t, err)
	assert.Empty(t, found)
}
