package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
	"time"
)

type ScraperConfig struct {
	ZenrowsAPIKey        string        `mapstructure:"zenrows_api_key"`
	ZenrowsBaseURL       string        `mapstructure:"zenrows_base_url"`
	PollInterval         time.Duration `mapstructure:"poll_interval"`
	PromoInterval        time.Duration `mapstructure:"promo_interval"`
	RetryAttempts        int           `mapstructure:"retry_attempts"`
	RetryDelay           time.Duration `mapstructure:"retry_delay"`
	MaxRequestsPerSecond float32       `mapstructure:"max_requests_per_second"`
}

func (config ScraperConfig) validate() error {

	var missingFields []string

	if config.ZenrowsAPIKey == "" {
		missingFields = append(missingFields, "zenrows_api_key")
	}

	if config.PollInterval <= 0 {
		missingFields = append(missingFields, "poll_interval")
	}

	if config.PromoInterval <= 0 {
		missingFields = append(missingFields, "promo_interval")
	}

	if config.RetryAttempts <= 0 {
		missingFields = append(missingFields, "retry_attempts")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config ScraperConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("scraper.zenrows_api_key", "ZENROWS_API_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scraper.zenrows_base_url", "ZENROWS_BASE_URL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scraper.poll_interval", "POLL_INTERVAL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scraper.promo_interval", "PROMO_INTERVAL"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
