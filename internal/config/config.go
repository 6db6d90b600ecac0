package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvLocal  = "local"
	EnvDocker = "docker"
)

// Config holds the inventory service configuration.
//
// Every key can be set in an optional YAML file or through an environment
// variable prefixed with INVENTORY_, dots replaced by underscores
// (http.addr -> INVENTORY_HTTP_ADDR).
type Config struct {
	AppEnv      string          `mapstructure:"app_env"`
	Demo        bool            `mapstructure:"demo"`
	DatabaseURL string          `mapstructure:"database_url"`
	Log         LogConfig       `mapstructure:"log"`
	Audit       AuditConfig     `mapstructure:"audit"`
	HTTP        HTTPConfig      `mapstructure:"http"`
	Auth        AuthConfig      `mapstructure:"auth"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Kafka       KafkaConfig     `mapstructure:"kafka"`
	SMTP        SMTPConfig      `mapstructure:"smtp"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuditConfig struct {
	Path string `mapstructure:"path"`
	// FailOpen keeps the service running on the process logger when the
	// audit file cannot be opened.
	FailOpen bool `mapstructure:"fail_open"`
}

// HTTPConfig: an empty Addr disables the HTTP server.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	StaffUsername string        `mapstructure:"staff_username"`
	StaffPassword string        `mapstructure:"staff_password"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type SMTPConfig struct {
	Server       string `mapstructure:"server"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	From         string `mapstructure:"from"`
	To           string `mapstructure:"to"`
	AuthDisabled bool   `mapstructure:"auth_disabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("demo", true)
	v.SetDefault("database_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
	v.SetDefault("audit.path", "inventory.log")
	v.SetDefault("audit.fail_open", true)
	v.SetDefault("http.addr", "")
	v.SetDefault("http.shutdown_timeout", 5*time.Second)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 15*time.Minute)
	v.SetDefault("auth.staff_username", "admin")
	v.SetDefault("auth.staff_password", "")
	v.SetDefault("rate_limit.rps", 1.0)
	v.SetDefault("rate_limit.burst", 3)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "inventory.low-stock")
	v.SetDefault("smtp.server", "")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.to", "")
	v.SetDefault("smtp.auth_disabled", false)
}

// Load reads defaults, then the optional config file at path, then the
// environment.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.AppEnv != EnvLocal && c.AppEnv != EnvDocker {
		return fmt.Errorf("invalid app_env: %s (must be 'local' or 'docker')", c.AppEnv)
	}
	if c.Audit.Path == "" {
		return errors.New("audit.path is required")
	}
	if c.HTTP.Addr != "" {
		if c.HTTP.ShutdownTimeout <= 0 {
			return errors.New("http.shutdown_timeout must be positive")
		}
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret is required when http is enabled")
		}
		if c.Auth.TokenTTL <= 0 {
			return errors.New("auth.token_ttl must be positive")
		}
		if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
			return errors.New("rate_limit.rps and rate_limit.burst must be positive")
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required when kafka.brokers is set")
	}
	if c.SMTP.Server != "" && (c.SMTP.From == "" || c.SMTP.To == "") {
		return errors.New("smtp.from and smtp.to are required when smtp.server is set")
	}
	return nil
}
