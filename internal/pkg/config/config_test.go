package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("trmnl-test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Board.DefaultStop != "NSR:StopPlace:58366" {
		t.Errorf("unexpected default stop %s", cfg.Board.DefaultStop)
	}
	if cfg.Board.WindowMinutes != 30 || cfg.Board.LeadMinutes != 3 || cfg.Board.FetchLimit != 200 {
		t.Errorf("unexpected board defaults %+v", cfg.Board)
	}
	if cfg.Telemetry.ServiceName != "trmnl-test" {
		t.Errorf("expected service name from argument, got %s", cfg.Telemetry.ServiceName)
	}
	if cfg.NATS.URL != "" || cfg.Valkey.Addr != "" {
		t.Error("optional backends should be disabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRMNL_AUTH_SECRET", "s3cret")
	t.Setenv("TRMNL_BOARD_DEFAULT_STOP", "NSR:StopPlace:59872")
	t.Setenv("TRMNL_BOARD_WINDOW_MINUTES", "90")
	t.Setenv("TRMNL_LOG_LEVEL", "debug")

	cfg, err := Load("trmnl-test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.Secret != "s3cret" {
		t.Errorf("expected secret from env, got %q", cfg.Auth.Secret)
	}
	if cfg.Board.DefaultStop != "NSR:StopPlace:59872" {
		t.Errorf("expected stop from env, got %s", cfg.Board.DefaultStop)
	}
	if cfg.Board.WindowMinutes != 90 {
		t.Errorf("expected window 90, got %d", cfg.Board.WindowMinutes)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Log.Level)
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := Config{
		Server: ServerConfig{Port: 70000, ReadTimeout: 1, WriteTimeout: 1, RequestTimeout: 1, RateLimit: 1},
		Board:  BoardConfig{DefaultStop: "x", WindowMinutes: 2000, MaxWindow: 1440, FetchLimit: 10, MaxFetchLimit: 100},
		Entur:  EnturConfig{URL: "http://x", ClientName: "c", Timeout: 1},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "auth.secret", "board.window_minutes"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}
