package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"warn"`
	Pretty     bool   `env:"LOG_PRETTY"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"10"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
	Send          bool          `env:"SEND_LOGS_TO_AXIOM"`
	APIKey        string        `env:"AXIOM_API_KEY"`
	OrgID         string        `env:"AXIOM_ORG_ID"`
	Dataset       string        `env:"AXIOM_DATASET" envDefault:"dev"`
	FlushInterval time.Duration `env:"AXIOM_FLUSH_INTERVAL" envDefault:"10s"`
}

// LimitsConfig bounds what a single command accepts as input.
type LimitsConfig struct {
	MaxFiles     int    `env:"MAX_FILES" envDefault:"10"`
	MaxTotalSize string `env:"MAX_TOTAL_SIZE" envDefault:"50MB"`

	// MaxTotalBytes is MaxTotalSize parsed.
	MaxTotalBytes uint64
}

// S3Config configures access to s3:// sources.
type S3Config struct {
	Region          string `env:"REGION"`
	Endpoint        string `env:"ENDPOINT"`
	UsePathStyle    bool   `env:"PATH_STYLE"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
}

// ThumbnailConfig holds page preview defaults.
type ThumbnailConfig struct {
	DPI     int  `env:"DPI" envDefault:"72"`
	Quality int  `env:"QUALITY" envDefault:"80"`
	Gray    bool `env:"GRAY"`
}

// Config is the top-level configuration.
type Config struct {
	Environment string `env:"ENVIRONMENT"`
	Logging     LoggingConfig
	Axiom       AxiomConfig
	Limits      LimitsConfig    `envPrefix:"PDFTOOLS_LIMIT_"`
	S3          S3Config        `envPrefix:"PDFTOOLS_S3_"`
	Thumbnail   ThumbnailConfig `envPrefix:"PDFTOOLS_THUMBNAIL_"`
	HTTPTimeout time.Duration   `env:"PDFTOOLS_HTTP_TIMEOUT" envDefault:"30s"`
	MetricsFile string          `env:"PDFTOOLS_METRICS_FILE"`
}

// Load reads the given dotenv files (".env" when none is given, silently
// skipped if missing) and then parses configuration from the environment.
// Variables already set in the environment win over dotenv values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if _, set := os.LookupEnv("LOG_PRETTY"); !set {
		cfg.Logging.Pretty = isDev(cfg.Environment)
	}
	cfg.Axiom.Dataset += "_pdftools"

	n, err := humanize.ParseBytes(cfg.Limits.MaxTotalSize)
	if err != nil {
		return Config{}, fmt.Errorf("PDFTOOLS_LIMIT_MAX_TOTAL_SIZE %q: %w", cfg.Limits.MaxTotalSize, err)
	}
	cfg.Limits.MaxTotalBytes = n
	if cfg.Limits.MaxFiles <= 0 {
		cfg.Limits.MaxFiles = 10
	}
	if cfg.Thumbnail.DPI <= 0 {
		cfg.Thumbnail.DPI = 72
	}
	if cfg.Thumbnail.Quality <= 0 || cfg.Thumbnail.Quality > 100 {
		cfg.Thumbnail.Quality = 80
	}
	return cfg, nil
}

func isDev(environment string) bool {
	switch strings.ToLower(environment) {
	case "dev", "development", "local":
		return true
	}
	return false
}
