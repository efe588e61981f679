package telegram

import (
	"fmt"
	"time"

	"meetup-bot/state"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"go.uber.org/zap"
)

func NewTelegramClient() error {
	var (
		cfg    = state.State.Config
		logger = state.State.Logger
	)

	bot, err := gotgbot.NewBot(cfg.Telegram.BotToken, &gotgbot.BotOpts{
		RequestOpts: &gotgbot.RequestOpts{
			APIURL: cfg.Telegram.ApiUrl,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}

	// The bot's own handle is needed for the payment return URL.
	if cfg.Telegram.BotUsername == "" {
		cfg.Telegram.BotUsername = bot.User.Username
	}

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			logger.Error("error while handling telegram update",
				zap.Error(err),
			)
			logger.Sync()
			return ext.DispatcherActionNoop
		},
	})
	updater := ext.NewUpdater(dispatcher, nil)

	err = updater.StartPolling(bot, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout: 60,
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: 70 * time.Second,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	state.State.TelegramBot = bot
	state.State.TelegramDispatcher = dispatcher
	state.State.TelegramUpdater = updater

	logger.Info("started telegram bot",
		zap.String("username", bot.User.Username),
	)
	logger.Sync()

	return nil
}
