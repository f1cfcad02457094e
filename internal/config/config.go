package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileEnv names the environment variable pointing at an optional config file.
// Environment variables take precedence over values read from the file.
const FileEnv = "STOREFRONT_CONFIG"

var ErrMissingBackendURL = errors.New("BACKEND_BASE_URL is required")

type Config struct {
	Port           string `mapstructure:"PORT"`
	BackendBaseURL string `mapstructure:"BACKEND_BASE_URL"`
	CatalogBaseURL string `mapstructure:"CATALOG_BASE_URL"`
	CurrencySymbol string `mapstructure:"CURRENCY_SYMBOL"`
	KafkaBrokers   string `mapstructure:"KAFKA_BROKERS"`
	EventsTopic    string `mapstructure:"EVENTS_TOPIC"`
	OTLPEndpoint   string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceVersion string `mapstructure:"SERVICE_VERSION"`
}

var defaults = map[string]string{
	"PORT":                        "8080",
	"BACKEND_BASE_URL":            "",
	"CATALOG_BASE_URL":            "https://fakestoreapi.com",
	"CURRENCY_SYMBOL":             "R$",
	"KAFKA_BROKERS":               "",
	"EVENTS_TOPIC":                "storefront.events",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "localhost:4317",
	"SERVICE_VERSION":             "0.1.0",
}

// Load reads the configuration from the environment and, when FileEnv is set,
// from that file.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.BindEnv(FileEnv); err != nil {
		return nil, fmt.Errorf("bind %s: %w", FileEnv, err)
	}
	if path := v.GetString(FileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.BackendBaseURL) == "" {
		return ErrMissingBackendURL
	}
	return nil
}

// Brokers splits KAFKA_BROKERS on commas. An empty result disables event publishing.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
