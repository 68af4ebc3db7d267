package config

import "time"

// APIConfig holds ESI client configuration.
type APIConfig struct {
	// BaseURL of the ESI API
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// UserAgent sent with every request, as ESI etiquette requires
	UserAgent string `mapstructure:"user_agent" validate:"required"`

	// Timeout per request
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s"`

	// MaxAttempts is the total number of tries per request, including the
	// first
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=1"`

	// BackoffBase is the base delay for exponential retry backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`

	// RateLimit is the self-imposed request rate (requests per second)
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`

	// RateBurst is the rate limiter burst size
	RateBurst int `mapstructure:"rate_burst" validate:"min=0"`
}
