package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config настройки сервиса, читаются из окружения и .env
type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	AuthTokens   map[string]string
	AuthDisabled bool
	RedisAddr    string

	KafkaBrokers []string
	KafkaTopic   string

	OTLPEndpoint   string
	ServiceName    string
	ServiceVersion string

	SeedFile     string
	SeedDisabled bool
}

// Load reads envFile (when it exists) into the process environment and
// builds the config. A missing default .env is not an error.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	authDisabled, err := getBool("AUTH_DISABLED", false)
	if err != nil {
		return Config{}, err
	}
	seedDisabled, err := getBool("SEED_DISABLED", false)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":9091"),
		AuthTokens:     parseTokens(getEnv("AUTH_TOKENS", "")),
		AuthDisabled:   authDisabled,
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		KafkaBrokers:   splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "repairdesk.orders"),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:    getEnv("SERVICE_NAME", "repairdesk"),
		ServiceVersion: getEnv("SERVICE_VERSION", "1.0.0"),
		SeedFile:       getEnv("SEED_FILE", ""),
		SeedDisabled:   seedDisabled,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parseTokens разбирает "token" или "token:user"; без имени пользователем считается "api"
func parseTokens(s string) map[string]string {
	out := make(map[string]string)
	for _, entry := range splitCSV(s) {
		token, user, found := strings.Cut(entry, ":")
		token = strings.TrimSpace(token)
		user = strings.TrimSpace(user)
		if token == "" {
			continue
		}
		if !found || user == "" {
			user = "api"
		}
		out[token] = user
	}
	return out
}
