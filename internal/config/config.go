package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken string

	// OwnerID is the single identity allowed to run owner-only commands.
	// Fixed for the process lifetime.
	OwnerID int64

	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheTTL time.Duration
}

func Load() (*Config, error) {
	token := strings.TrimSpace(os.Getenv("BOT_TOKEN"))
	if token == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}

	ownerRaw := strings.TrimSpace(os.Getenv("OWNER_ID"))
	if ownerRaw == "" {
		return nil, errors.New("OWNER_ID is required")
	}
	ownerID, err := strconv.ParseInt(ownerRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OWNER_ID %q: %w", ownerRaw, err)
	}

	redisHost := strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if redisHost == "" {
		redisHost = "localhost"
	}
	redisPort := strings.TrimSpace(os.Getenv("REDIS_PORT"))
	if redisPort == "" {
		redisPort = "6379"
	}

	redisDB := 0
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		redisDB, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
		}
	}

	ttl := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("SUB_CACHE_TTL_SECONDS")); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid SUB_CACHE_TTL_SECONDS %q", raw)
		}
		ttl = time.Duration(secs) * time.Second
	}

	return &Config{
		BotToken:      token,
		OwnerID:       ownerID,
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:     redisHost + ":" + redisPort,
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		CacheTTL:      ttl,
	}, nil
}
