package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	Storage    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration
	LockWait      time.Duration

	MaxActiveGroups       int
	LogLevel              string
	RateLimitRPS          float64
	RateLimitBurst        int
	CapacityAuditSchedule string
}

// LoadConfig reads the environment, after loading envFiles into it. Missing env files
// are skipped. Variables already set in the environment win over the files.
func LoadConfig(v *viper.Viper, envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "dispatch")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("STORAGE", StoragePostgres)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOCK_TTL", "30s")
	v.SetDefault("LOCK_WAIT", "5s")
	v.SetDefault("MAX_ACTIVE_GROUPS", services.DefaultMaxActiveGroups)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("CAPACITY_AUDIT_SCHEDULE", jobs.DefaultAuditSchedule)

	config := Config{
		HTTPPort:              v.GetString("HTTP_PORT"),
		DBHost:                v.GetString("DB_HOST"),
		DBPort:                v.GetString("DB_PORT"),
		DBUser:                v.GetString("DB_USER"),
		DBPassword:            v.GetString("DB_PASSWORD"),
		DBName:                v.GetString("DB_NAME"),
		DBSslMode:             v.GetString("DB_SSLMODE"),
		Storage:               strings.ToLower(v.GetString("STORAGE")),
		RedisAddr:             v.GetString("REDIS_ADDR"),
		RedisPassword:         v.GetString("REDIS_PASSWORD"),
		RedisDB:               v.GetInt("REDIS_DB"),
		LockTTL:               v.GetDuration("LOCK_TTL"),
		LockWait:              v.GetDuration("LOCK_WAIT"),
		MaxActiveGroups:       v.GetInt("MAX_ACTIVE_GROUPS"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		RateLimitRPS:          v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:        v.GetInt("RATE_LIMIT_BURST"),
		CapacityAuditSchedule: v.GetString("CAPACITY_AUDIT_SCHEDULE"),
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	var problems []error
	if c.Storage != StorageMemory && c.Storage != StoragePostgres {
		problems = append(problems, fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage))
	}
	if c.MaxActiveGroups <= 0 {
		problems = append(problems, fmt.Errorf("MAX_ACTIVE_GROUPS must be positive, got %d", c.MaxActiveGroups))
	}
	if c.LockTTL <= 0 || c.LockWait <= 0 {
		problems = append(problems, errors.New("LOCK_TTL and LOCK_WAIT must be positive durations"))
	}
	if c.HTTPPort == "" {
		problems = append(problems, errors.New("HTTP_PORT is required"))
	}
	return errors.Join(problems...)
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// NewLogger builds the process logger: JSON on stdout at LOG_LEVEL.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
