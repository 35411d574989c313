// Package config loads service settings from the environment.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "market"

type Config struct {
	DBDSN      string `envconfig:"db_dsn" required:"true"`
	HTTPAddr   string `envconfig:"http_addr" default:":8080"`
	CORSOrigin string `envconfig:"cors_origin" default:"http://localhost:3000"`

	JWTSecret string        `envconfig:"jwt_secret" required:"true"`
	JWTTTL    time.Duration `envconfig:"jwt_ttl" default:"72h"`

	RedisAddr     string `envconfig:"redis_addr"`
	RedisPassword string `envconfig:"redis_password"`
	RedisChannel  string `envconfig:"redis_channel" default:"market.notifications"`

	RateLimitRPS   int `envconfig:"rate_limit_rps" default:"20"`
	RateLimitBurst int `envconfig:"rate_limit_burst" default:"40"`

	LogLevel string `envconfig:"log_level" default:"info"`
	LogJSON  bool   `envconfig:"log_json" default:"false"`

	NotifyQueueSize int `envconfig:"notify_queue_size" default:"256"`
	NotifyRetries   int `envconfig:"notify_retries" default:"3"`
}

// Load reads .env when present and decodes MARKET_* variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("could not load .env file, relying on process environment")
	}
	return Parse()
}

// Parse decodes MARKET_* variables without touching .env.
func Parse() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, errors.Wrap(err, "failed to parse env")
	}
	return c, nil
}

// ConfigureLogging applies the level and formatter to the standard logrus logger.
func (c *Config) ConfigureLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	log.SetLevel(level)
	if c.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
