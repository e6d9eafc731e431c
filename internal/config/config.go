package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type BotConfig struct {
	TelegramToken string
	APIBaseURL    string
	DatabaseURL   string
	HTTPTimeout   time.Duration
}

var instance *BotConfig
var once sync.Once

func GetBotConfig() *BotConfig {
	once.Do(func() {
		instance = &BotConfig{}

		if err := godotenv.Load(); err != nil {
			logrus.Infof("no .env file loaded: %s", err.Error())
		}

		instance.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
		if instance.TelegramToken == "" {
			logrus.Fatal("could not get bot token")
		}

		instance.APIBaseURL = getEnv("EMS_API_URL", "")
		if instance.APIBaseURL == "" {
			logrus.Fatal("could not get EMS API url")
		}

		instance.DatabaseURL = getEnv("DATABASE_URL", "ems-bot.db")

		timeoutSec := getEnvAsInt("EMS_HTTP_TIMEOUT_SEC", 15)
		instance.HTTPTimeout = time.Duration(timeoutSec) * time.Second
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}
