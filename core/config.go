package core

import (
	"fmt"
	"strings"
	"time"
)

type DeliveryConfig struct {
	MaxAttempts       int           `koanf:"max_attempts" mapstructure:"max_attempts"`
	BaseDelay         time.Duration `koanf:"base_delay" mapstructure:"base_delay"`
	BackoffMultiplier float64       `koanf:"backoff_multiplier" mapstructure:"backoff_multiplier"`
	MaxDelay          time.Duration `koanf:"max_delay" mapstructure:"max_delay"`
	Timeout           time.Duration `koanf:"timeout" mapstructure:"timeout"`
	ResponseBodyLimit int           `koanf:"response_body_limit" mapstructure:"response_body_limit"`
	SignatureHeader   string        `koanf:"signature_header" mapstructure:"signature_header"`
}

type Config struct {
	ServiceName string         `koanf:"service_name" mapstructure:"service_name"`
	Delivery    DeliveryConfig `koanf:"delivery" mapstructure:"delivery"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "ecm-events",
		Delivery: DeliveryConfig{
			MaxAttempts:       5,
			BaseDelay:         10 * time.Second,
			BackoffMultiplier: 2,
			MaxDelay:          5 * time.Minute,
			Timeout:           30 * time.Second,
			ResponseBodyLimit: 4000,
			SignatureHeader:   "X-Webhook-Signature",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Delivery.MaxAttempts < 0 {
		return fmt.Errorf("core: delivery.max_attempts must not be negative")
	}
	if c.Delivery.BackoffMultiplier < 0 {
		return fmt.Errorf("core: delivery.backoff_multiplier must not be negative")
	}
	if c.Delivery.ResponseBodyLimit < 0 {
		return fmt.Errorf("core: delivery.response_body_limit must not be negative")
	}
	return nil
}
