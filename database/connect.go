package database

import (
	"fmt"

	"meetup-bot/state"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect() (*gorm.DB, error) {
	cfg := state.State.Config

	dbType := cfg.Database["type"]
	dbURL := cfg.Database["url"]

	var dialector gorm.Dialector
	switch dbType {
	case "", "sqlite", "sqlite3":
		if dbURL == "" {
			dbURL = "file:meetup_bot.db?_foreign_keys=on"
		}
		dialector = sqlite.Open(dbURL)
	case "postgres", "postgresql":
		dialector = postgres.Open(dbURL)
	case "mysql":
		dialector = mysql.Open(dbURL)
	default:
		return nil, fmt.Errorf("unsupported database type '%s'", dbType)
	}

	gormConfig := &gorm.Config{}
	if cfg.SilentDbLogs {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	return gorm.Open(dialector, gormConfig)
}
