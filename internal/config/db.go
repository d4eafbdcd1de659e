package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	Name            string `toml:"name"`
	SSLMode         string `toml:"sslmode"`
	TimeZone        string `toml:"timezone"`
	SQLitePath      string `toml:"sqlite_path"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifeTime int    `toml:"conn_max_lifetime_min"` // минут
}

func defaultDBConfig() DBConfig {
	return DBConfig{
		Driver:          DriverPostgres,
		Host:            "postgres",
		User:            "scheduling",
		Password:        "scheduling",
		Name:            "scheduling_db",
		SSLMode:         "disable",
		TimeZone:        "UTC",
		SQLitePath:      "scheduling.db",
		Port:            5432,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifeTime: 30,
	}
}

// LoadDBConfig читает настройки БД только из окружения.
func LoadDBConfig() (*DBConfig, error) {
	cfg := defaultDBConfig()
	applyDBEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDBEnv(cfg *DBConfig) {
	cfg.Driver = getEnv("DB_DRIVER", cfg.Driver)
	cfg.Host = getEnv("DB_HOST", cfg.Host)
	cfg.User = getEnv("DB_USER", cfg.User)
	cfg.Password = getEnv("DB_PASSWORD", cfg.Password)
	cfg.Name = getEnv("DB_NAME", cfg.Name)
	cfg.SSLMode = getEnv("DB_SSLMODE", cfg.SSLMode)
	cfg.TimeZone = getEnv("DB_TIMEZONE", cfg.TimeZone)
	cfg.SQLitePath = getEnv("DB_SQLITE_PATH", cfg.SQLitePath)
	cfg.Port = getEnvInt("DB_PORT", cfg.Port)
	cfg.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns)
	cfg.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns)
	cfg.ConnMaxLifeTime = getEnvInt("DB_CONN_MAX_LIFETIME_MIN", cfg.ConnMaxLifeTime)
}

// Validate: минимальная валидация.
func (c *DBConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" || c.User == "" || c.Name == "" {
			return fmt.Errorf("invalid DB config: host/user/name must not be empty")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("invalid DB config: sqlite path must not be empty")
		}
	default:
		return fmt.Errorf("invalid DB config: unknown driver %q", c.Driver)
	}
	return nil
}

// ConnMaxLifetime возвращает время жизни соединения.
func (c *DBConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifeTime) * time.Minute
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
