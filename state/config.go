package state

import (
	"fmt"
	"io"
	"os"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Path         string `yaml:"-"`
	TimeZone     string `yaml:"time_zone"`
	DebugMode    bool   `yaml:"debug_mode"`
	SilentDbLogs bool   `yaml:"silent_db_logs"`

	Telegram struct {
		BotToken    string `yaml:"bot_token"`
		ApiUrl      string `yaml:"api_url"`
		BotUsername string `yaml:"bot_username"`
	} `yaml:"telegram"`

	YooKassa struct {
		ShopID    string `yaml:"shop_id"`
		SecretKey string `yaml:"secret_key"`
		Currency  string `yaml:"currency"`
	} `yaml:"yookassa"`

	Donations struct {
		PresetAmounts []int64 `yaml:"preset_amounts"`
		MinCustom     int64   `yaml:"min_custom"`
		MaxCustom     int64   `yaml:"max_custom"`
	} `yaml:"donations"`

	HTTP struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"http"`

	Database map[string]string `yaml:"database"`
}

func (cfg *Config) LoadConfig() error {
	configFilePath := cfg.Path

	if _, err := os.Stat(configFilePath); err != nil {
		return fmt.Errorf("error with config file path : %s", err)
	}

	configFile, err := os.Open(configFilePath)
	if err != nil {
		return fmt.Errorf("could not open config file : %s", err)
	}
	defer configFile.Close()

	configBody, err := io.ReadAll(configFile)
	if err != nil {
		return fmt.Errorf("could not read config file : %s", err)
	}

	err = yaml.Unmarshal(configBody, cfg)
	if err != nil {
		return fmt.Errorf("could not parse config file : %s", err)
	}

	cfg.applyEnvOverrides()

	deprecatedOptions := GetDeprecatedConfigOptions(cfg)
	if deprecatedOptions != nil {
		fmt.Println("The following options have been deprecated/removed:")
		for num, opt := range deprecatedOptions {
			fmt.Printf("%d. %s: %s\n", num+1, opt.Name, opt.Description)
		}
	}

	return nil
}

// Secrets can stay out of the yaml file and come from the environment
// (or a .env file loaded by main) instead.
func (cfg *Config) applyEnvOverrides() {
	if token := os.Getenv("BOT_TOKEN"); token != "" {
		cfg.Telegram.BotToken = token
	}
	if shopID := os.Getenv("YOOKASSA_SHOP_ID"); shopID != "" {
		cfg.YooKassa.ShopID = shopID
	}
	if secret := os.Getenv("YOOKASSA_SECRET_KEY"); secret != "" {
		cfg.YooKassa.SecretKey = secret
	}
}

func (cfg *Config) SetDefaults() {
	cfg.TimeZone = "Europe/Moscow"

	cfg.Telegram.ApiUrl = gotgbot.DefaultAPIURL

	cfg.YooKassa.Currency = "RUB"

	cfg.Donations.PresetAmounts = []int64{100, 300, 500}
	cfg.Donations.MinCustom = 10
	cfg.Donations.MaxCustom = 15000

	cfg.HTTP.ListenAddr = ":8081"
}
