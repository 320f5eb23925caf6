package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppPort       int
	BackendURL    string
	SerperAPIKey  string
	CacheCapacity int
	HistoryPath   string
	UIConfigPath  string
}

func Load() (*Config, error) {
	appPort, err := strconv.Atoi(getEnvDefault("APP_PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	cacheCapacity, err := strconv.Atoi(getEnvDefault("CACHE_CAPACITY", "32"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_CAPACITY: %w", err)
	}

	return &Config{
		AppPort: appPort,
		// The backend routes are joined as baseURL + "/search", so a trailing
		// slash in FASTAPI_URL would produce a double slash. Always trim it.
		BackendURL:    strings.TrimRight(getEnvDefault("FASTAPI_URL", "http://localhost:8000"), "/"),
		SerperAPIKey:  os.Getenv("SERPER_API_KEY"),
		CacheCapacity: cacheCapacity,
		HistoryPath:   getEnvDefault("HISTORY_DB_PATH", "data/history.db"),
		UIConfigPath:  os.Getenv("UI_CONFIG_PATH"),
	}, nil
}

func getEnvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
