package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/clinical-dashboard/internal/service/dataset"
)

// EnvPrefix prefixes every environment override, e.g. DASHBOARD_SERVER_PORT.
const EnvPrefix = "DASHBOARD"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" split_words:"true"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Events    EventsConfig    `mapstructure:"events"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" split_words:"true" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type DatasetConfig struct {
	Seed  int64  `mapstructure:"seed"`
	Count int    `mapstructure:"count" validate:"min=1"`
	Start string `mapstructure:"start" validate:"required,datetime=2006-01-02"`
	End   string `mapstructure:"end" validate:"required,datetime=2006-01-02"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" split_words:"true" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
}

type CacheConfig struct {
	MaxAge int `mapstructure:"max_age" split_words:"true" validate:"gte=0"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path" validate:"required,startswith=/"`
	Namespace string `mapstructure:"namespace" validate:"required"`
}

type EventsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	RedisURL string `mapstructure:"redis_url" envconfig:"REDIS_URL" validate:"required_if=Enabled true"`
	Channel  string `mapstructure:"channel" validate:"required"`
}

func setDefaults(v *viper.Viper) {
	def := dataset.DefaultParams()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("dataset.seed", def.Seed)
	v.SetDefault("dataset.count", def.Count)
	v.SetDefault("dataset.start", def.Start.Format("2006-01-02"))
	v.SetDefault("dataset.end", def.End.Format("2006-01-02"))

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 50)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cache.max_age", 300)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "clinical_dashboard")

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.redis_url", "redis://localhost:6379/0")
	v.SetDefault("events.channel", "dashboard-events")
}

// LoadConfig reads config.yaml from the usual search paths, falls back to
// defaults when no file exists and applies DASHBOARD_* environment overrides.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "/app/config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks struct constraints and the dataset parameters.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	params, err := c.Dataset.Params()
	if err != nil {
		return err
	}
	return params.Validate()
}

// Params converts the dataset section into generation parameters.
func (d DatasetConfig) Params() (dataset.Params, error) {
	start, err := time.Parse("2006-01-02", d.Start)
	if err != nil {
		return dataset.Params{}, fmt.Errorf("invalid dataset.start: %w", err)
	}
	end, err := time.Parse("2006-01-02", d.End)
	if err != nil {
		return dataset.Params{}, fmt.Errorf("invalid dataset.end: %w", err)
	}
	return dataset.Params{Seed: d.Seed, Count: d.Count, Start: start, End: end}, nil
}

// Address is the listen address of the HTTP server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}
