package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Source site configuration
	BaseURL   string `long:"base-url" env:"BASE_URL" default:"https://tuoitre.vn" description:"Base URL of the source news site"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" description:"Fixed user agent string (rotated pool used when empty)"`

	// Storage configuration
	Storage        string `long:"storage" env:"STORAGE" default:"sqlite" choice:"sqlite" choice:"rest" description:"Article store backend"`
	DBPath         string `long:"db-path" env:"DB_PATH" default:"./news.db" description:"SQLite database file path"`
	RestURL        string `long:"rest-url" env:"REST_URL" description:"REST store base URL (required for rest storage)"`
	RestAnonKey    string `long:"rest-anon-key" env:"REST_ANON_KEY" description:"REST store anon API key"`
	RestServiceKey string `long:"rest-service-key" env:"REST_SERVICE_KEY" description:"REST store service API key for privileged writes"`

	// Crawl configuration
	IntervalMinutes int    `long:"interval-minutes" env:"INTERVAL_MINUTES" default:"30" description:"Minutes between crawl cycles"`
	ItemDelayMs     int    `long:"item-delay-ms" env:"ITEM_DELAY_MS" default:"500" description:"Delay between items within a category"`
	CategoryDelayMs int    `long:"category-delay-ms" env:"CATEGORY_DELAY_MS" default:"2000" description:"Delay between categories within a cycle"`
	MaxRetries      int    `long:"max-retries" env:"MAX_RETRIES" default:"3" description:"HTTP fetch retry attempts"`
	RetryBaseMs     int    `long:"retry-base-ms" env:"RETRY_BASE_MS" default:"1000" description:"Base backoff between HTTP retries"`
	MaxConcurrent   int    `long:"max-concurrent" env:"MAX_CONCURRENT" default:"3" description:"Deep-scrape worker count"`
	RulesFile       string `long:"rules-file" env:"RULES_FILE" description:"YAML file overriding the classifier rules"`

	// Application metadata
	Port     string `long:"port" env:"PORT" default:"8080" description:"Operational HTTP server port"`
	Timezone string `long:"timezone" env:"TZ" default:"Asia/Ho_Chi_Minh" description:"Timezone for timestamps"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		BaseURL:         raw.BaseURL,
		UserAgent:       raw.UserAgent,
		Storage:         raw.Storage,
		DBPath:          raw.DBPath,
		RestURL:         raw.RestURL,
		RestAnonKey:     raw.RestAnonKey,
		RestServiceKey:  raw.RestServiceKey,
		IntervalMinutes: raw.IntervalMinutes,
		ItemDelayMs:     raw.ItemDelayMs,
		CategoryDelayMs: raw.CategoryDelayMs,
		MaxRetries:      raw.MaxRetries,
		RetryBaseMs:     raw.RetryBaseMs,
		MaxConcurrent:   raw.MaxConcurrent,
		RulesFile:       raw.RulesFile,
		Port:            raw.Port,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func (c *Cfg) validate() error {
	if c.Storage == "rest" {
		if c.RestURL == "" {
			return fmt.Errorf("rest storage requires --rest-url")
		}
		if c.RestAnonKey == "" {
			return fmt.Errorf("rest storage requires --rest-anon-key")
		}
	}
	if c.IntervalMinutes < 1 {
		return fmt.Errorf("interval must be at least 1 minute, got %d", c.IntervalMinutes)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max concurrent workers must be at least 1, got %d", c.MaxConcurrent)
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
