package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Payment   PaymentConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type PaymentConfig struct {
	StripeSecretKey  string
	StripeMethod     string
	StripeReturnURL  string
	Amount           int64
	Currency         string
	Timeout          time.Duration
	SimulatedLatency time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "appointment-booking")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_PAYMENT_METHOD", "pm_card_visa")
	v.SetDefault("STRIPE_RETURN_URL", "https://www.example.com")
	v.SetDefault("CONSULTATION_AMOUNT", 5000)
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("PAYMENT_TIMEOUT", "30s")
	v.SetDefault("SIMULATED_PAYMENT_LATENCY", "0s")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// .env is optional; the process environment always wins
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Payment: PaymentConfig{
			StripeSecretKey:  v.GetString("STRIPE_SECRET_KEY"),
			StripeMethod:     v.GetString("STRIPE_PAYMENT_METHOD"),
			StripeReturnURL:  v.GetString("STRIPE_RETURN_URL"),
			Amount:           v.GetInt64("CONSULTATION_AMOUNT"),
			Currency:         strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
			Timeout:          v.GetDuration("PAYMENT_TIMEOUT"),
			SimulatedLatency: v.GetDuration("SIMULATED_PAYMENT_LATENCY"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.App.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.App.Port)
	}
	if c.Payment.Amount <= 0 {
		return fmt.Errorf("invalid CONSULTATION_AMOUNT %d: must be positive", c.Payment.Amount)
	}
	if c.Payment.Currency == "" {
		return errors.New("PAYMENT_CURRENCY is required")
	}
	if c.Payment.Timeout <= 0 {
		return fmt.Errorf("invalid PAYMENT_TIMEOUT %s", c.Payment.Timeout)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("invalid rate limit %.2f rps / burst %d", c.RateLimit.RPS, c.RateLimit.Burst)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
