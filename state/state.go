package state

import (
	"time"

	"meetup-bot/payments"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type state struct {
	Config *Config
	Logger *zap.Logger

	Database *gorm.DB

	PaymentProvider payments.Provider

	TelegramBot        *gotgbot.Bot
	TelegramDispatcher *ext.Dispatcher
	TelegramUpdater    *ext.Updater
	TelegramCommands   []gotgbot.BotCommand

	LocalLocation *time.Location
	StartTime     time.Time
}

var State = &state{
	Config: &Config{},
}
