// Package config reads runtime settings for the CLI and web server from the
// environment, after loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultEnvFile is loaded when RAYMARCH_ENV_FILE is not set. A missing file is ignored.
	DefaultEnvFile = ".env"
	// DefaultWidth and DefaultHeight are the render size when no flag overrides them
	DefaultWidth  = 400
	DefaultHeight = 225
	// DefaultOutputDir is where rendered images are written
	DefaultOutputDir = "output"
	// DefaultScenesDir holds JSON scene files
	DefaultScenesDir = "scenes"
	// DefaultPort is the web server port
	DefaultPort = 8080
	// DefaultS3Region is used when a bucket is configured without a region
	DefaultS3Region = "us-east-1"
	// DefaultUploadTimeout bounds a single upload
	DefaultUploadTimeout = 30 * time.Second
)

// Config captures all runtime tunables
type Config struct {
	Width     int
	Height    int
	Workers   int // 0 = one per CPU
	OutputDir string
	ScenesDir string
	Port      int
	S3        S3Config
}

// S3Config describes where renders are published. Publishing is off when Bucket is empty.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string // Custom endpoint for S3-compatible stores; empty uses AWS
	AccessKey     string
	SecretKey     string
	Prefix        string // Key prefix for uploaded objects
	UploadTimeout time.Duration
}

// Enabled reports whether uploads are configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads the configuration from environment variables, applying defaults
// and returning one error that lists every invalid override
func Load() (*Config, error) {
	envFile := getString("RAYMARCH_ENV_FILE", DefaultEnvFile)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		OutputDir: getString("RAYMARCH_OUTPUT_DIR", DefaultOutputDir),
		ScenesDir: getString("RAYMARCH_SCENES_DIR", DefaultScenesDir),
		Port:      DefaultPort,
		S3: S3Config{
			Bucket:        strings.TrimSpace(os.Getenv("RAYMARCH_S3_BUCKET")),
			Region:        getString("RAYMARCH_S3_REGION", DefaultS3Region),
			Endpoint:      strings.TrimSpace(os.Getenv("RAYMARCH_S3_ENDPOINT")),
			AccessKey:     strings.TrimSpace(os.Getenv("RAYMARCH_S3_ACCESS_KEY")),
			SecretKey:     strings.TrimSpace(os.Getenv("RAYMARCH_S3_SECRET_KEY")),
			Prefix:        strings.Trim(strings.TrimSpace(os.Getenv("RAYMARCH_S3_PREFIX")), "/"),
			UploadTimeout: DefaultUploadTimeout,
		},
	}

	var problems []string

	parsePositive := func(key string, target *int) {
		if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil || value <= 0 {
				problems = append(problems, fmt.Sprintf("%s must be a positive integer, got %q", key, raw))
			} else {
				*target = value
			}
		}
	}

	parsePositive("RAYMARCH_WIDTH", &cfg.Width)
	parsePositive("RAYMARCH_HEIGHT", &cfg.Height)
	parsePositive("RAYMARCH_PORT", &cfg.Port)

	if raw := strings.TrimSpace(os.Getenv("RAYMARCH_WORKERS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("RAYMARCH_WORKERS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Workers = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("RAYMARCH_S3_UPLOAD_TIMEOUT")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			problems = append(problems, fmt.Sprintf("RAYMARCH_S3_UPLOAD_TIMEOUT must be a positive duration, got %q", raw))
		} else {
			cfg.S3.UploadTimeout = duration
		}
	}

	if (cfg.S3.AccessKey == "") != (cfg.S3.SecretKey == "") {
		problems = append(problems, "RAYMARCH_S3_ACCESS_KEY and RAYMARCH_S3_SECRET_KEY must be provided together")
	}

	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
