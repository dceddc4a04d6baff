// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig         `mapstructure:"app"`
	Database     DatabaseConfig    `mapstructure:"database"`
	Integrations IntegrationConfig `mapstructure:"integrations"`
	Queue        QueueConfig       `mapstructure:"queue"`
	Metrics      MetricsConfig     `mapstructure:"metrics"`
	Logging      LoggingConfig     `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// IntegrationConfig holds settings for external services the bridge talks to.
type IntegrationConfig struct {
	LOS LOSConfig `mapstructure:"los"`
}

// LOSConfig configures the outbound webhook to the loan origination system.
// WebhookURL is intentionally optional: an empty URL means the integration is
// disabled, and pushes are recorded as failed without any network attempt.
type LOSConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

// QueueConfig holds settings for the Redis-backed push request queue.
type QueueConfig struct {
	Name    string `mapstructure:"name"`
	Workers int    `mapstructure:"workers"`
}

// MetricsConfig holds settings for the metrics/health HTTP listener.
type MetricsConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
