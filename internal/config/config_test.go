package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_URL", "postgres://localhost/proplab")
	t.Setenv("CLICKHOUSE_URL", "clickhouse://localhost:9000")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 || cfg.GameLogTTL != 300*time.Second || cfg.RosterTTL != 2*time.Hour {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.RefreshSchedule != "0 6 * * *" || cfg.RefreshTimezone.String() != "America/New_York" {
		t.Errorf("refresh schedule=%q tz=%v", cfg.RefreshSchedule, cfg.RefreshTimezone)
	}
	if cfg.DefaultOpponent != "BOS" || cfg.RefreshArchiveLogs {
		t.Errorf("opponent=%q archive=%v", cfg.DefaultOpponent, cfg.RefreshArchiveLogs)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("GAME_LOG_TTL", "1m")
	t.Setenv("ARCHIVE_WORKERS", "6")
	t.Setenv("REFRESH_ARCHIVE_LOGS", "true")
	t.Setenv("DEFAULT_OPPONENT", "nyk")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("NBA_STATS_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GameLogTTL != time.Minute || cfg.ArchiveWorkers != 6 || !cfg.RefreshArchiveLogs {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.DefaultOpponent != "NYK" {
		t.Errorf("opponent = %q, want NYK", cfg.DefaultOpponent)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.NBAStatsTimeout != 30*time.Second {
		t.Errorf("bad duration should fall back, got %v", cfg.NBAStatsTimeout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{"missing postgres", map[string]string{"POSTGRES_URL": ""}, "POSTGRES_URL"},
		{"missing redis", map[string]string{"REDIS_URL": ""}, "REDIS_URL"},
		{"bad timezone", map[string]string{"REFRESH_TIMEZONE": "Mars/Olympus"}, "REFRESH_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.wantMsg)
			}
		})
	}
}
