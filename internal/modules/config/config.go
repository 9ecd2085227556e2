package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	channelIDENV      = "TELEGRAM_CHANNEL_ID"
	chatIDENV         = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
)

// Config ...
type Config struct {
	Telegram struct {
		Token string `yaml:"token"`
		// Канал с сигналами, который слушаем
		ChannelID int64 `yaml:"channel_id"`
		// Чат для уведомлений оператору (0 — уведомления выключены)
		ChatID int64 `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Binance struct {
		Testnet bool `yaml:"testnet"`
	} `yaml:"binance"`
	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`
	Health struct {
		Addr string `yaml:"addr"`
	} `yaml:"health"`

	// Дефолты кошелька, если не заданы в БД
	WalletAPIKey    string
	WalletAPISecret string
	WalletBalance   float64
	WalletLeverage  int

	// Дистанция коллбэка трейлинг-стопа, в процентах от цены
	TrailingCallbackRate float64 `yaml:"trailing_callback_rate"`
}

func NewConfig() (*Config, error) {
	// .env опционален: в проде всё приходит через окружение
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		WalletAPIKey:    os.Getenv("BINANCE_API_KEY"),
		WalletAPISecret: os.Getenv("BINANCE_API_SECRET"),
		WalletBalance:   floatFromEnv("WALLET_BALANCE", 0),
		WalletLeverage:  intFromEnv("WALLET_LEVERAGE", 10),

		TrailingCallbackRate: floatFromEnv("TRAILING_CALLBACK_RATE", 0.2),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	if v := os.Getenv(channelIDENV); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Telegram.ChannelID = id
		}
	}
	if v := os.Getenv(chatIDENV); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if config.Health.Addr == "" {
		config.Health.Addr = ":8080"
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
