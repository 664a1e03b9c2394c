// Package config loads the learning service configuration from the
// environment.
package config

import (
	"errors"
	"strings"
	"time"

	platform "github.com/example/learning-platform/internal/platform/config"
	"github.com/example/learning-platform/services/learning/internal/player"
)

// Driver names accepted by PROGRESS_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	HTTPAddr  string
	LogLevel  string
	JWTSecret []byte
	TokenTTL  time.Duration

	// ProgressDriver selects the progress and catalog backend.
	ProgressDriver string
	DatabaseURL    string
	SQLitePath     string

	NATSURL string

	Guard player.Config

	// PlaybackSigningSecret and DeliveryBase enable signed media links;
	// both empty means raw media URLs are returned.
	PlaybackSigningSecret string
	DeliveryBase          string
}

func Load() (Config, error) {
	secret := platform.String("JWT_SECRET", "")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	driver := strings.ToLower(platform.String("PROGRESS_DRIVER", DriverMemory))
	switch driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return Config{}, errors.New("PROGRESS_DRIVER must be postgres, sqlite or memory")
	}

	cfg := Config{
		HTTPAddr:  platform.String("HTTP_ADDR", ":8080"),
		LogLevel:  platform.String("LOG_LEVEL", "info"),
		JWTSecret: []byte(secret),
		TokenTTL:  platform.Duration("ACCESS_TOKEN_TTL", 15*time.Minute),

		ProgressDriver: driver,
		DatabaseURL:    platform.String("DATABASE_URL", ""),
		SQLitePath:     platform.String("SQLITE_PATH", "learning.db"),

		NATSURL: platform.String("NATS_URL", ""),

		Guard: player.Config{
			ToleranceSeconds: platform.Float("GUARD_TOLERANCE_SECONDS", 0),
			NoticeDuration:   platform.Duration("GUARD_NOTICE_DURATION", 0),
			MaxPlaybackRate:  platform.Float("GUARD_MAX_PLAYBACK_RATE", 0),
		},

		PlaybackSigningSecret: platform.String("PLAYBACK_SIGNING_SECRET", ""),
		DeliveryBase:          platform.String("MEDIA_DELIVERY_BASE", ""),
	}
	if cfg.ProgressDriver == DriverPostgres && cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required for the postgres driver")
	}
	return cfg, nil
}
