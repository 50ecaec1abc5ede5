package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"wealth-server/src/db/mysql"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

type Config struct {
	Port           string          `yaml:"port"`
	DBDriver       string          `yaml:"db_driver"`
	DatabaseURL    string          `yaml:"database_url"`
	MySQL          mysql.Config    `yaml:"mysql"`
	JWTSecret      string          `yaml:"jwt_secret"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	DemoMode       bool            `yaml:"demo_mode"`
	LogLevel       string          `yaml:"log_level"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	CacheMaxCost   int64           `yaml:"cache_max_cost"`
}

// RateLimitConfig sizes the per-owner bucket guarding transaction creation.
type RateLimitConfig struct {
	Capacity int           `yaml:"capacity"`
	Refill   int           `yaml:"refill"`
	Interval time.Duration `yaml:"interval"`
	Blocked  []string      `yaml:"blocked"`
}

func defaults() Config {
	return Config{
		Port:     "8080",
		DBDriver: DriverPostgres,
		LogLevel: "info",
		MySQL: mysql.Config{
			Host:         "localhost",
			Port:         3306,
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			LogLevel:     "error",
		},
		RateLimit: RateLimitConfig{
			Capacity: 10,
			Refill:   10,
			Interval: time.Hour,
		},
		CacheMaxCost: 10000,
	}
}

// Load reads .env if present, then the YAML file named by CONFIG_FILE, then environment
// variables, each layer overriding the previous one.
func Load() (Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", cfg.DBDriver))
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DBName = getEnv("MYSQL_DB", cfg.MySQL.DBName)

	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("BLOCKED_OWNERS"); ok {
		cfg.RateLimit.Blocked = splitList(v)
	}

	var err error
	if cfg.MySQL.Port, err = getEnvInt("MYSQL_PORT", cfg.MySQL.Port); err != nil {
		return err
	}
	if cfg.RateLimit.Capacity, err = getEnvInt("RATE_LIMIT_CAPACITY", cfg.RateLimit.Capacity); err != nil {
		return err
	}
	if cfg.RateLimit.Refill, err = getEnvInt("RATE_LIMIT_REFILL", cfg.RateLimit.Refill); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("RATE_LIMIT_INTERVAL"); ok {
		if cfg.RateLimit.Interval, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_INTERVAL %q: %w", v, err)
		}
	}
	if v, ok := os.LookupEnv("DEMO_MODE"); ok {
		if cfg.DemoMode, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("invalid DEMO_MODE %q: %w", v, err)
		}
	}
	if v, ok := os.LookupEnv("CACHE_MAX_COST"); ok {
		if cfg.CacheMaxCost, err = strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("invalid CACHE_MAX_COST %q: %w", v, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case DriverMySQL:
		if c.MySQL.Host == "" || c.MySQL.DBName == "" {
			return fmt.Errorf("MYSQL_HOST and MYSQL_DB are required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.RateLimit.Capacity <= 0 || c.RateLimit.Refill <= 0 || c.RateLimit.Interval <= 0 {
		return fmt.Errorf("rate limit capacity, refill and interval must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
