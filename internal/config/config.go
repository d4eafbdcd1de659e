package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

type Config struct {
	GRPC       GRPCConfig       `toml:"grpc"`
	Log        LogConfig        `toml:"log"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Redis      RedisConfig      `toml:"redis"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	DB         DBConfig         `toml:"db"`
	Domains    []DomainSeed     `toml:"domains"`
}

type GRPCConfig struct {
	Addr string `toml:"addr"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
	Path    string `toml:"path"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Stream   string `toml:"stream"`
	// Приблизительный предел длины стрима (MAXLEN ~).
	MaxLen int64 `toml:"max_len"`
}

type SchedulingConfig struct {
	DefaultSlotDurationMin int `toml:"default_slot_duration_min"`
	// Таймаут публикации события после коммита, в миллисекундах.
	NotifyTimeoutMS int `toml:"notify_timeout_ms"`
}

func (c SchedulingConfig) DefaultSlotDuration() time.Duration {
	return time.Duration(c.DefaultSlotDurationMin) * time.Minute
}

func (c SchedulingConfig) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutMS) * time.Millisecond
}

// DomainSeed: статичная конфигурация домена из файла.
type DomainSeed struct {
	Type                   string                  `toml:"type"`
	DefaultDurationMinutes int                     `toml:"default_duration_minutes"`
	Fields                 []model.FieldDescriptor `toml:"fields"`
	Inactive               bool                    `toml:"inactive"`
}

// DomainConfigurations переводит секции [[domains]] в записи для засева.
func (c *Config) DomainConfigurations() []model.DomainConfiguration {
	out := make([]model.DomainConfiguration, 0, len(c.Domains))
	for _, d := range c.Domains {
		out = append(out, model.DomainConfiguration{
			DomainType:             d.Type,
			DefaultDurationMinutes: d.DefaultDurationMinutes,
			Fields:                 datatypes.NewJSONType(d.Fields),
			IsActive:               !d.Inactive,
		})
	}
	return out
}

func Default() *Config {
	return &Config{
		GRPC:    GRPCConfig{Addr: ":50051"},
		Log:     LogConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true, Addr: ":9090", Path: "/metrics"},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Stream: "order-events",
			MaxLen: 10000,
		},
		Scheduling: SchedulingConfig{
			DefaultSlotDurationMin: 60,
			NotifyTimeoutMS:        2000,
		},
		DB: defaultDBConfig(),
	}
}

// Load собирает конфигурацию: дефолты, затем TOML-файл (если есть),
// затем .env и переменные окружения. Отсутствующий файл не ошибка.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.GRPC.Addr = getEnv("GRPC_ADDR", c.GRPC.Addr)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	c.Metrics.Enabled = getEnvBool("METRICS_ENABLED", c.Metrics.Enabled)
	c.Metrics.Addr = getEnv("METRICS_ADDR", c.Metrics.Addr)
	c.Metrics.Path = getEnv("METRICS_PATH", c.Metrics.Path)

	c.Redis.Enabled = getEnvBool("REDIS_ENABLED", c.Redis.Enabled)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.Stream = getEnv("REDIS_STREAM", c.Redis.Stream)

	c.Scheduling.DefaultSlotDurationMin = getEnvInt("DEFAULT_SLOT_DURATION_MIN", c.Scheduling.DefaultSlotDurationMin)
	c.Scheduling.NotifyTimeoutMS = getEnvInt("NOTIFY_TIMEOUT_MS", c.Scheduling.NotifyTimeoutMS)

	applyDBEnv(&c.DB)
}

func (c *Config) Validate() error {
	if c.GRPC.Addr == "" {
		return fmt.Errorf("invalid config: grpc addr must not be empty")
	}
	if c.Scheduling.DefaultSlotDurationMin <= 0 {
		return fmt.Errorf("invalid config: default slot duration must be positive")
	}
	if c.Redis.Enabled && (c.Redis.Addr == "" || c.Redis.Stream == "") {
		return fmt.Errorf("invalid config: redis addr/stream must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Domains))
	for _, d := range c.Domains {
		if d.Type == "" {
			return fmt.Errorf("invalid config: domain type must not be empty")
		}
		if d.DefaultDurationMinutes <= 0 {
			return fmt.Errorf("invalid config: domain %q duration must be positive", d.Type)
		}
		if _, dup := seen[d.Type]; dup {
			return fmt.Errorf("invalid config: duplicate domain %q", d.Type)
		}
		seen[d.Type] = struct{}{}
	}
	return c.DB.Validate()
}
