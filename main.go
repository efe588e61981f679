package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetup-bot/database"
	"meetup-bot/payments"
	"meetup-bot/server"
	"meetup-bot/state"
	"meetup-bot/telegram"
	"meetup-bot/utils"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load configuration file
	_ = godotenv.Load()

	cfg := state.State.Config
	cfg.SetDefaults()

	cfg.Path = "config.yaml"
	if len(os.Args) > 1 {
		cfg.Path = os.Args[1]
	}

	err := cfg.LoadConfig()
	if err != nil {
		panic(fmt.Errorf("failed to load config file: %s", err))
	}

	if cfg.DebugMode {
		developmentConfig := zap.NewDevelopmentConfig()
		developmentConfig.OutputPaths = append(developmentConfig.OutputPaths, "debug.log")
		state.State.Logger, err = developmentConfig.Build()
		if err != nil {
			panic(fmt.Errorf("failed to initialize development logger: %s", err))
		}
		state.State.Logger = state.State.Logger.Named("MeetupBot_Dev")
	} else {
		productionConfig := zap.NewProductionConfig()
		state.State.Logger, err = productionConfig.Build()
		if err != nil {
			panic(fmt.Errorf("failed to initialize production logger: %s", err))
		}
		state.State.Logger = state.State.Logger.Named("MeetupBot")
	}
	logger := state.State.Logger

	logger.Debug("loaded config file and started logger",
		zap.String("config_path", cfg.Path),
		zap.Bool("development_mode", cfg.DebugMode),
	)
	logger.Sync()

	// Create local location for time
	if cfg.TimeZone == "" {
		cfg.TimeZone = "UTC"
	}
	locLoc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Fatal("failed to set time zone",
			zap.String("time_zone", cfg.TimeZone),
			zap.Error(err),
		)
	}
	state.State.LocalLocation = locLoc

	if cfg.Telegram.BotToken == "" {
		logger.Fatal("telegram bot token is not configured")
	}
	if cfg.YooKassa.ShopID == "" || cfg.YooKassa.SecretKey == "" {
		logger.Fatal("yookassa shop id and secret key are not configured")
	}

	// Setup database
	db, err := database.Connect()
	if err != nil {
		logger.Fatal("could not connect to database",
			zap.Error(err),
		)
	}

	state.State.Database = db
	if err = database.AutoMigrate(); err != nil {
		logger.Fatal("could not migrate database tables",
			zap.Error(err),
		)
	}
	if err = database.MigrateDatabase(db); err != nil {
		logger.Fatal("could not apply file migrations",
			zap.Error(err),
		)
	}

	state.State.PaymentProvider = payments.NewYooKassa(cfg.YooKassa.ShopID, cfg.YooKassa.SecretKey)

	if err = telegram.NewTelegramClient(); err != nil {
		logger.Fatal("failed to initialize telegram client",
			zap.Error(err),
		)
	}

	state.State.StartTime = time.Now().UTC()

	telegram.AddTelegramHandlers()

	if err = utils.TgRegisterBotCommands(state.State.TelegramBot, state.State.TelegramCommands...); err != nil {
		logger.Error("failed to set my commands",
			zap.Error(err),
		)
	}

	// Payment notifications arrive over HTTP next to the long-polling bot.
	httpSrv := server.New(cfg.HTTP.ListenAddr)
	go func() {
		logger.Info("webhook server listening",
			zap.String("addr", cfg.HTTP.ListenAddr),
		)
		logger.Sync()
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("webhook server failed",
				zap.Error(err),
			)
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		_ = state.State.TelegramUpdater.Stop()
	}()

	logger.Sync()

	state.State.TelegramUpdater.Idle()
}
