package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	// DatasetPath is a local CSV path or an http(s) URL.
	DatasetPath string `envconfig:"DATASET_PATH" default:"data/clean_bike_rental_day.csv" validate:"required"`

	// ReloadInterval controls how often the dataset is re-read (0 = never).
	ReloadInterval time.Duration `envconfig:"DATASET_RELOAD_INTERVAL" default:"0s" validate:"gte=0"`

	// HTTPTimeout bounds outbound dataset downloads.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s" validate:"gt=0"`

	// In-memory store retention.
	StoreMaxHistory int `envconfig:"STORE_MAX_HISTORY" default:"10" validate:"gte=0"` // 0 = unlimited

	Port string `envconfig:"PORT" default:"8080" validate:"required,numeric"`

	Debug   bool   `envconfig:"DEBUG" default:"false"`
	LogFile string `envconfig:"LOG_FILE"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
