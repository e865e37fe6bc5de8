package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestValidate(t *testing.T) {
	base := Cfg{
		Storage:         "sqlite",
		DBPath:          "./news.db",
		IntervalMinutes: 30,
		MaxConcurrent:   3,
	}

	if err := base.validate(); err != nil {
		t.Errorf("valid sqlite config rejected: %v", err)
	}

	restNoURL := base
	restNoURL.Storage = "rest"
	if err := restNoURL.validate(); err == nil {
		t.Error("rest storage without URL should be rejected")
	}

	restNoKey := base
	restNoKey.Storage = "rest"
	restNoKey.RestURL = "https://project.supabase.co"
	if err := restNoKey.validate(); err == nil {
		t.Error("rest storage without anon key should be rejected")
	}

	restOK := restNoKey
	restOK.RestAnonKey = "anon-key"
	if err := restOK.validate(); err != nil {
		t.Errorf("valid rest config rejected: %v", err)
	}

	zeroInterval := base
	zeroInterval.IntervalMinutes = 0
	if err := zeroInterval.validate(); err == nil {
		t.Error("zero interval should be rejected")
	}

	zeroWorkers := base
	zeroWorkers.MaxConcurrent = 0
	if err := zeroWorkers.validate(); err == nil {
		t.Error("zero workers should be rejected")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		BaseURL:         "https://tuoitre.vn",
		Storage:         "rest",
		RestURL:         "https://project.supabase.co",
		RestAnonKey:     "anon",
		RestServiceKey:  "service",
		IntervalMinutes: 30,
		ItemDelayMs:     500,
		CategoryDelayMs: 2000,
		MaxRetries:      3,
		RetryBaseMs:     1000,
		MaxConcurrent:   3,
		Port:            "8080",
		Debug:           true,
	}

	if cfg.BaseURL != "https://tuoitre.vn" {
		t.Errorf("Expected base URL 'https://tuoitre.vn', got '%s'", cfg.BaseURL)
	}
	if cfg.ItemDelayMs != 500 {
		t.Errorf("Expected item delay 500, got %d", cfg.ItemDelayMs)
	}
	if cfg.CategoryDelayMs != 2000 {
		t.Errorf("Expected category delay 2000, got %d", cfg.CategoryDelayMs)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
