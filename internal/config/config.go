package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultProgramCacheTTL    = 5 * time.Minute
	DefaultProgramCacheSizeMB = 1
	DefaultRequestTimeout     = 20 * time.Second
	DefaultPreloadConcurrency = 4
	DefaultLoginRateLimit     = 5

	SessionBackendBadger = "badger"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Environment string `toml:"environment"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// coaching backend
	ApiBaseURL        string        `toml:"api_base_url"`
	Endpoints         Endpoints     `toml:"endpoints"`
	RequestTimeout    time.Duration `toml:"-"`
	RequestTimeoutStr string        `toml:"request_timeout"`

	// workout program cache
	ProgramCacheTTL     time.Duration `toml:"-"`
	ProgramCacheTTLStr  string        `toml:"program_cache_ttl"`
	ProgramCacheSizeMB  int           `toml:"program_cache_size_mb"` // expiry index size
	PreloadConcurrency  int           `toml:"preload_concurrency"`
	PasswordRecoveryURL string        `toml:"password_recovery_url"`

	// session persistence
	SessionBackend string `toml:"session_backend"`
	SessionDataDir string `toml:"session_data_dir"`
	DeviceID       string `toml:"device_id"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`
	// login attempts per minute per device, redis backend only
	LoginRateLimitPerMin int `toml:"login_rate_limit_per_min"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Endpoints struct {
	Login                   string `toml:"login"`
	Profile                 string `toml:"profile"`
	WorkoutDetails          string `toml:"workout_details"`
	WorkoutList             string `toml:"workout_list"`
	WorkoutCalendar         string `toml:"workout_calendar"`
	WorkoutExerciseProgress string `toml:"workout_exercise_progress"`
	NutritionList           string `toml:"nutrition_list"`
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:                   "/auth-login/",
		Profile:                 "/user-profile/",
		WorkoutDetails:          "/workout-details/",
		WorkoutList:             "/workout-list/",
		WorkoutCalendar:         "/workout-calendar/",
		WorkoutExerciseProgress: "/workout-exercise-progress/",
		NutritionList:           "/nutrition-list/",
	}
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, fmt.Errorf("no development config")
		}
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, fmt.Errorf("no production config")
		}
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path, picks the section for env, then applies
// FITCOACH_* environment overrides and defaults.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}

	applyEnvOverrides(cfg)
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITCOACH_API_BASE_URL"); v != "" {
		cfg.ApiBaseURL = v
	}
	if v := os.Getenv("FITCOACH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FITCOACH_SESSION_BACKEND"); v != "" {
		cfg.SessionBackend = v
	}
	if v := os.Getenv("FITCOACH_SESSION_DATA_DIR"); v != "" {
		cfg.SessionDataDir = v
	}
	if v := os.Getenv("FITCOACH_DEVICE_ID"); v != "" {
		cfg.DeviceID = v
	}
	if v := os.Getenv("FITCOACH_REDIS_HOST"); v != "" {
		cfg.RedisHost = v
	}
	if v := os.Getenv("FITCOACH_REDIS_PORT"); v != "" {
		cfg.RedisPort = v
	}
	if v := os.Getenv("FITCOACH_PROGRAM_CACHE_SIZE_MB"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.ProgramCacheSizeMB = size
		}
	}
}

func (c *Config) applyDefaults() error {
	var err error

	c.ProgramCacheTTL = DefaultProgramCacheTTL
	if c.ProgramCacheTTLStr != "" {
		if c.ProgramCacheTTL, err = time.ParseDuration(c.ProgramCacheTTLStr); err != nil {
			return fmt.Errorf("parse program_cache_ttl: %w", err)
		}
	}

	c.RequestTimeout = DefaultRequestTimeout
	if c.RequestTimeoutStr != "" {
		if c.RequestTimeout, err = time.ParseDuration(c.RequestTimeoutStr); err != nil {
			return fmt.Errorf("parse request_timeout: %w", err)
		}
	}

	if c.ProgramCacheSizeMB <= 0 {
		c.ProgramCacheSizeMB = DefaultProgramCacheSizeMB
	}
	if c.PreloadConcurrency <= 0 {
		c.PreloadConcurrency = DefaultPreloadConcurrency
	}
	if c.LoginRateLimitPerMin <= 0 {
		c.LoginRateLimitPerMin = DefaultLoginRateLimit
	}
	if c.SessionBackend == "" {
		c.SessionBackend = SessionBackendBadger
	}
	if c.DeviceID == "" {
		if c.DeviceID, err = os.Hostname(); err != nil {
			return fmt.Errorf("resolve device id: %w", err)
		}
	}

	defaults := DefaultEndpoints()
	fillEmpty(&c.Endpoints.Login, defaults.Login)
	fillEmpty(&c.Endpoints.Profile, defaults.Profile)
	fillEmpty(&c.Endpoints.WorkoutDetails, defaults.WorkoutDetails)
	fillEmpty(&c.Endpoints.WorkoutList, defaults.WorkoutList)
	fillEmpty(&c.Endpoints.WorkoutCalendar, defaults.WorkoutCalendar)
	fillEmpty(&c.Endpoints.WorkoutExerciseProgress, defaults.WorkoutExerciseProgress)
	fillEmpty(&c.Endpoints.NutritionList, defaults.NutritionList)

	return nil
}

func fillEmpty(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func (c *Config) validate() error {
	if c.ApiBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	switch c.SessionBackend {
	case SessionBackendBadger:
		if c.SessionDataDir == "" {
			return fmt.Errorf("session_data_dir is required for the %s backend", SessionBackendBadger)
		}
	case SessionBackendRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			return fmt.Errorf("redis_host and redis_port are required for the %s backend", SessionBackendRedis)
		}
	default:
		return fmt.Errorf("unknown session backend: %q", c.SessionBackend)
	}
	return nil
}

func (c *Config) MetricsEnabled() bool {
	return c.PrometheusMetricsPort != ""
}
