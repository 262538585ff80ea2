package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration. Loaded once at startup and treated
// as immutable afterwards; components receive the pieces they need.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	CORS      CORSConfig      `yaml:"cors"`
	Webhooks  WebhookConfig   `yaml:"webhooks"`
	Security  SecurityConfig  `yaml:"security"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JWTConfig struct {
	Secret    string        `yaml:"secret"`
	ExpiresIn time.Duration `yaml:"expires_in"`
	RefreshIn time.Duration `yaml:"refresh_in"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// WebhookConfig holds outbound notification targets.
// Parsed once here instead of read from the environment at send time.
type WebhookConfig struct {
	Targets        []string `yaml:"targets"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// SecurityConfig carries the developer allow-list: a privilege tier above
// admin, matched by user id, never stored on the user row.
type SecurityConfig struct {
	Developers []uint64 `yaml:"developers"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// Load reads the YAML config file and applies environment overrides
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080, Env: "local"},
		Database: DatabaseConfig{
			Host: "localhost", Port: 3306, User: "gamedex", Name: "gamedex",
			MaxOpenConns: 25, MaxIdleConns: 10,
		},
		Redis:     RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		JWT:       JWTConfig{ExpiresIn: 15 * time.Minute, RefreshIn: 7 * 24 * time.Hour},
		Webhooks:  WebhookConfig{TimeoutSeconds: 10},
		RateLimit: RateLimitConfig{RequestsPerMinute: 120},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required (set JWT_SECRET)")
	}

	return cfg, nil
}

// applyEnvOverrides lets secrets come from the environment instead of YAML
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
}

// IsDevelopment reports whether the server runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "local" || c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsDeveloper checks the out-of-band developer allow-list.
// This is the only authorization axis for admin-tier role changes and
// grace-period overrides; it is deliberately not a user-table column.
func (c *Config) IsDeveloper(userID uint64) bool {
	return slices.Contains(c.Security.Developers, userID)
}

// DSN builds the MySQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}
