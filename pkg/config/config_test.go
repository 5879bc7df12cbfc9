package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"RAYMARCH_WIDTH", "RAYMARCH_HEIGHT", "RAYMARCH_WORKERS", "RAYMARCH_OUTPUT_DIR",
	"RAYMARCH_SCENES_DIR", "RAYMARCH_PORT", "RAYMARCH_S3_BUCKET", "RAYMARCH_S3_REGION",
	"RAYMARCH_S3_ENDPOINT", "RAYMARCH_S3_ACCESS_KEY", "RAYMARCH_S3_SECRET_KEY",
	"RAYMARCH_S3_PREFIX", "RAYMARCH_S3_UPLOAD_TIMEOUT",
}

// clearEnv blanks every variable Load reads and points it at a missing .env
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
	t.Setenv("RAYMARCH_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Fatalf("expected default size %dx%d, got %dx%d", DefaultWidth, DefaultHeight, cfg.Width, cfg.Height)
	}
	if cfg.Workers != 0 {
		t.Fatalf("expected auto workers, got %d", cfg.Workers)
	}
	if cfg.OutputDir != DefaultOutputDir || cfg.ScenesDir != DefaultScenesDir {
		t.Fatalf("unexpected directories %q %q", cfg.OutputDir, cfg.ScenesDir)
	}
	if cfg.Port != DefaultPort {
		t.Fatalf("expected default port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.S3.Enabled() {
		t.Fatalf("expected uploads to be disabled without a bucket")
	}
	if cfg.S3.Region != DefaultS3Region || cfg.S3.UploadTimeout != DefaultUploadTimeout {
		t.Fatalf("unexpected S3 defaults %+v", cfg.S3)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAYMARCH_WIDTH", "1920")
	t.Setenv("RAYMARCH_HEIGHT", " 1080 ")
	t.Setenv("RAYMARCH_WORKERS", "4")
	t.Setenv("RAYMARCH_OUTPUT_DIR", "/tmp/renders")
	t.Setenv("RAYMARCH_PORT", "9090")
	t.Setenv("RAYMARCH_S3_BUCKET", "frames")
	t.Setenv("RAYMARCH_S3_REGION", "eu-west-1")
	t.Setenv("RAYMARCH_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("RAYMARCH_S3_ACCESS_KEY", "key")
	t.Setenv("RAYMARCH_S3_SECRET_KEY", "secret")
	t.Setenv("RAYMARCH_S3_PREFIX", "/renders/")
	t.Setenv("RAYMARCH_S3_UPLOAD_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Width != 1920 || cfg.Height != 1080 || cfg.Workers != 4 || cfg.Port != 9090 {
		t.Fatalf("unexpected numeric settings %+v", cfg)
	}
	if cfg.OutputDir != "/tmp/renders" {
		t.Fatalf("unexpected output dir %q", cfg.OutputDir)
	}
	if !cfg.S3.Enabled() || cfg.S3.Bucket != "frames" || cfg.S3.Region != "eu-west-1" {
		t.Fatalf("unexpected S3 settings %+v", cfg.S3)
	}
	if cfg.S3.Prefix != "renders" {
		t.Fatalf("expected trimmed prefix, got %q", cfg.S3.Prefix)
	}
	if cfg.S3.UploadTimeout != 5*time.Second {
		t.Fatalf("unexpected upload timeout %v", cfg.S3.UploadTimeout)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAYMARCH_WIDTH", "wide")
	t.Setenv("RAYMARCH_HEIGHT", "0")
	t.Setenv("RAYMARCH_WORKERS", "-2")
	t.Setenv("RAYMARCH_S3_UPLOAD_TIMEOUT", "soon")
	t.Setenv("RAYMARCH_S3_ACCESS_KEY", "key")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid overrides")
	}
	for _, key := range []string{"RAYMARCH_WIDTH", "RAYMARCH_HEIGHT", "RAYMARCH_WORKERS", "RAYMARCH_S3_UPLOAD_TIMEOUT", "RAYMARCH_S3_SECRET_KEY"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected error to mention %s, got %v", key, err)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv only fills variables that are absent, so unset instead of blanking
	for _, key := range []string{"RAYMARCH_PORT", "RAYMARCH_S3_BUCKET"} {
		os.Unsetenv(key)
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	envFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envFile, []byte("RAYMARCH_PORT=7070\nRAYMARCH_S3_BUCKET=from-file\n"), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("RAYMARCH_ENV_FILE", envFile)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Port != 7070 || cfg.S3.Bucket != "from-file" {
		t.Fatalf("expected values from env file, got port %d bucket %q", cfg.Port, cfg.S3.Bucket)
	}
}
