package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Listing  ListingConfig  `yaml:"listing"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	// Seed loads the demo fixtures into an empty memory store.
	Seed bool `yaml:"seed"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type JWTConfig struct {
	Secret          string `yaml:"secret"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

func (j JWTConfig) ExpirationDuration() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File enables rotated file output instead of stdout.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
}

type ListingConfig struct {
	// Collation is a BCP 47 tag used to order names.
	Collation string `yaml:"collation"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "release",
		},
		Storage: StorageConfig{
			Driver: StorageMemory,
			Seed:   true,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "docflow",
			Name:    "docflow",
			SSLMode: "disable",
		},
		JWT: JWTConfig{
			ExpirationHours: 24,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxAgeDays: 28,
			MaxBackups: 5,
		},
		Listing: ListingConfig{
			Collation: "und",
		},
	}
}

// Load reads defaults, then the YAML file named by DOCFLOW_CONFIG, then the
// environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("DOCFLOW_CONFIG"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.JWT.ExpirationHours <= 0 {
		return fmt.Errorf("jwt expiration must be positive, got %d", c.JWT.ExpirationHours)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "DOCFLOW_PORT")
	setString(&cfg.Server.Mode, "DOCFLOW_MODE")
	setString(&cfg.Storage.Driver, "DOCFLOW_STORAGE")
	if v := os.Getenv("DOCFLOW_SEED"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DOCFLOW_SEED: %w", err)
		}
		cfg.Storage.Seed = seed
	}

	setString(&cfg.Database.Host, "DATABASE_HOST")
	setString(&cfg.Database.Port, "DATABASE_PORT")
	setString(&cfg.Database.User, "DATABASE_USER")
	setString(&cfg.Database.Password, "DATABASE_PASSWORD")
	setString(&cfg.Database.Name, "DATABASE_NAME")
	setString(&cfg.Database.SSLMode, "DATABASE_SSLMODE")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
		}
		cfg.JWT.ExpirationHours = hours
	}

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Log.File, "LOG_FILE")
	setString(&cfg.Listing.Collation, "DOCFLOW_COLLATION")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
