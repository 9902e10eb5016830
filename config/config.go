package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr          string        `envconfig:"ADDR" default:":8080"`
	RedisURL      string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	JWTSecret     string        `envconfig:"JWT_SECRET" default:"chatwire-secret-key-change-in-production"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"72h"`
	ChannelPrefix string        `envconfig:"CHANNEL_PREFIX" default:"chatwire:"`
	AllowedOrigin string        `envconfig:"ALLOWED_ORIGIN" default:"*"`
}

var Cfg *Config

func Load() error {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return err
	}
	Cfg = cfg
	return nil
}
