package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Twilio
	TwilioAccountSID     string `env:"TWILIO_ACCOUNT_SID,required"`
	TwilioAuthToken      string `env:"TWILIO_AUTH_TOKEN,required"`
	TwilioWhatsAppNumber string `env:"TWILIO_WHATSAPP_NUMBER,required"`

	// Try-on inference space
	TryOnBaseURL string `env:"TRYON_BASE_URL" envDefault:"https://kwai-kolors-kolors-virtual-try-on.hf.space"`

	// Server
	Port int `env:"PORT" envDefault:"5000"`

	// Sessions untouched this long are swept from memory
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	// Scratch directory for downloaded images; empty means os.TempDir
	ImageDir string `env:"IMAGE_DIR"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
