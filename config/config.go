package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Solana   SolanaConfig   `mapstructure:"solana"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Operator OperatorConfig `mapstructure:"operator"`
	AES      AESConfig      `mapstructure:"aes"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SolanaConfig configures the upstream RPC endpoint pools.
type SolanaConfig struct {
	PrimaryEndpoints []string      `mapstructure:"primary_endpoints"`
	BackupEndpoints  []string      `mapstructure:"backup_endpoints"`
	ProbeInterval    time.Duration `mapstructure:"probe_interval"`
	ProbeTimeout     time.Duration `mapstructure:"probe_timeout"`
	FailureThreshold int           `mapstructure:"failure_threshold"`
	BlockhashTTL     time.Duration `mapstructure:"blockhash_ttl"`
}

// MonitorConfig configures the stake submission monitor.
type MonitorConfig struct {
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	PollBatchSize     int           `mapstructure:"poll_batch_size"`
	MaxPendingAge     time.Duration `mapstructure:"max_pending_age"`
	ValidatorInterval time.Duration `mapstructure:"validator_interval"`
	ActivationDataLen int           `mapstructure:"activation_data_len"`
}

// WebhookConfig configures notification delivery and the retry sweep.
type WebhookConfig struct {
	DeliveryTimeout     time.Duration `mapstructure:"delivery_timeout"`
	MaxRetries          int           `mapstructure:"max_retries"`
	InitialRetryDelay   time.Duration `mapstructure:"initial_retry_delay"`
	MaxRetryDelay       time.Duration `mapstructure:"max_retry_delay"`
	SweepInterval       time.Duration `mapstructure:"sweep_interval"`
	SweepBatchSize      int           `mapstructure:"sweep_batch_size"`
	DispatchBatchSize   int           `mapstructure:"dispatch_batch_size"`
	DeactivateThreshold int           `mapstructure:"deactivate_threshold"`
	EventBufferSize     int           `mapstructure:"event_buffer_size"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// OperatorConfig holds the status-dashboard operator credentials.
// PasswordHash is an Argon2id hash produced offline.
type OperatorConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type AESConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key for AES-256
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: STK.
// Nested keys use underscore: STK_DATABASE_HOST, STK_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "staking_api")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("solana.primary_endpoints", []string{"https://api.mainnet-beta.solana.com"})
	v.SetDefault("solana.backup_endpoints", []string{})
	v.SetDefault("solana.probe_interval", "30s")
	v.SetDefault("solana.probe_timeout", "5s")
	v.SetDefault("solana.failure_threshold", 3)
	v.SetDefault("solana.blockhash_ttl", "30s")
	v.SetDefault("monitor.poll_interval", "30s")
	v.SetDefault("monitor.poll_batch_size", 3)
	v.SetDefault("monitor.max_pending_age", "24h")
	v.SetDefault("monitor.validator_interval", "5m")
	v.SetDefault("monitor.activation_data_len", 200)
	v.SetDefault("webhook.delivery_timeout", "10s")
	v.SetDefault("webhook.max_retries", 3)
	v.SetDefault("webhook.initial_retry_delay", "1s")
	v.SetDefault("webhook.max_retry_delay", "60s")
	v.SetDefault("webhook.sweep_interval", "30s")
	v.SetDefault("webhook.sweep_batch_size", 5)
	v.SetDefault("webhook.dispatch_batch_size", 5)
	v.SetDefault("webhook.deactivate_threshold", 10)
	v.SetDefault("webhook.event_buffer_size", 256)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "agent-staking-api")
	v.SetDefault("operator.username", "")
	v.SetDefault("operator.password_hash", "")
	v.SetDefault("aes.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: STK_DATABASE_HOST -> database.host
	v.SetEnvPrefix("STK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if len(cfg.Solana.PrimaryEndpoints) == 0 {
		return nil, fmt.Errorf("at least one primary solana endpoint is required")
	}

	return &cfg, nil
}
