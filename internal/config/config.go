package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Environment          string
	HTTPPort             string
	DBDSN                string
	Storage              string
	JWTSecret            string
	Timezone             string
	UploadDir            string
	UploadMaxMB          int64
	MeetingBaseURL       string
	AllowedOrigins       []string
	HousekeepingInterval time.Duration
	RedisURL             string
	TelegramToken        string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфиг из переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:    getenv("ENV", "development"),
		HTTPPort:       getenv("HTTP_PORT", "8080"),
		DBDSN:          os.Getenv("DB_DSN"),
		Storage:        getenv("STORAGE", StoragePostgres),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Timezone:       getenv("TIMEZONE", "UTC"),
		UploadDir:      getenv("UPLOAD_DIR", "./uploads"),
		MeetingBaseURL: getenv("MEETING_BASE_URL", "https://meet.jit.si"),
		RedisURL:       os.Getenv("REDIS_URL"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	maxMB, err := strconv.ParseInt(getenv("UPLOAD_MAX_MB", "50"), 10, 64)
	if err != nil || maxMB <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_MB must be a positive integer")
	}
	cfg.UploadMaxMB = maxMB

	interval, err := time.ParseDuration(getenv("HOUSEKEEPING_INTERVAL", "15m"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("HOUSEKEEPING_INTERVAL must be a positive duration")
	}
	cfg.HousekeepingInterval = interval

	for _, origin := range strings.Split(getenv("ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	// Проверяем обязательные поля
	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required but not set")
		}
	default:
		return nil, fmt.Errorf("STORAGE must be %q or %q", StoragePostgres, StorageMemory)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location часовой пояс для локальных дат
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
