package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// App is the process configuration, read from the environment.
type App struct {
	Port string `envconfig:"APP_PORT" default:"8080"`

	// Database
	DBHost        string `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string `envconfig:"DB_PORT" default:"5432"`
	DBUser        string `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string `envconfig:"DB_PASSWORD" default:"password"`
	DBName        string `envconfig:"DB_NAME" default:"cemetery"`
	DBSSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	DBTimezone    string `envconfig:"DB_TIMEZONE" default:"UTC"`
	DBAutoMigrate bool   `envconfig:"DB_AUTOMIGRATE" default:"true"`

	// Tokens
	TokenSecret string `envconfig:"TOKEN_SECRET" required:"true"`

	// Logging
	LogFile  string `envconfig:"LOG_FILE" default:"./logs/app.log"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Redis backs login throttling; empty address disables it.
	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
	LoginRateWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"1m"`

	// Peers allowed to set X-Forwarded-For, comma separated IPs or CIDRs.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	// RabbitMQ receives change events; empty URL disables them.
	RabbitMQURL    string `envconfig:"RABBITMQ_URL"`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"cemetery.events"`
}

// Load reads an optional .env file and then the environment.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on env vars")
	}
	var c App
	if err := envconfig.Process("", &c); err != nil {
		return App{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// DSN builds the PostgreSQL connection string.
func (c App) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimezone,
	)
}
