package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. The original client hard-coded the
// polling intervals per screen; here they are externalized so each view keeps
// reasonably fresh without scattering literals.
type Config struct {
	// Backend base URL, e.g. http://192.168.0.171/liwad-api.
	BaseURL string `env:"PIPETRACK_API_URL" envDefault:"http://localhost:8080"`

	// Per-request timeout. The original had none and could hang forever;
	// a timeout classifies as a network failure.
	HTTPTimeout time.Duration `env:"PIPETRACK_HTTP_TIMEOUT" envDefault:"15s"`

	// Tracking view refresh (in_progress/resolved reports).
	TrackPollInterval time.Duration `env:"PIPETRACK_TRACK_POLL_INTERVAL" envDefault:"10s"`

	// Profile/history view refresh (resolved/rejected reports).
	HistoryPollInterval time.Duration `env:"PIPETRACK_HISTORY_POLL_INTERVAL" envDefault:"30s"`

	// Where the session profile snapshot is persisted between launches.
	SessionFile string `env:"PIPETRACK_SESSION_FILE" envDefault:"pipetrack_session.json"`

	LogLevel string `env:"PIPETRACK_LOG_LEVEL" envDefault:"info"`

	// Dev/test stub backend settings.
	ServerPort int    `env:"PIPETRACK_PORT" envDefault:"8080"`
	DBPath     string `env:"PIPETRACK_DB_PATH" envDefault:"pipetrack.db"`
	UploadsDir string `env:"PIPETRACK_UPLOADS_DIR" envDefault:"uploads"`
}

// Load reads configuration from the environment, with .env support for dev
// setups. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from env: %w", err)
	}
	if cfg.TrackPollInterval <= 0 || cfg.HistoryPollInterval <= 0 {
		return nil, fmt.Errorf("poll intervals must be positive, got track=%v history=%v",
			cfg.TrackPollInterval, cfg.HistoryPollInterval)
	}
	return cfg, nil
}
