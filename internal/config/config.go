package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. VRP_DB_URL for db.url.
const EnvPrefix = "VRP"

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

type BingConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type MatrixConfig struct {
	MaxPairs    int    `mapstructure:"max_pairs"`
	Concurrency int    `mapstructure:"concurrency"`
	TravelMode  string `mapstructure:"travel_mode"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Config holds every setting used by the server and the importer.
type Config struct {
	DB     DBConfig     `mapstructure:"db"`
	Bing   BingConfig   `mapstructure:"bing"`
	Matrix MatrixConfig `mapstructure:"matrix"`
	Server ServerConfig `mapstructure:"server"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		DB:     DBConfig{Driver: "sqlite3", URL: "file:data/archive.db"},
		Bing:   BingConfig{BaseURL: "https://dev.virtualearth.net"},
		Matrix: MatrixConfig{MaxPairs: 2500, Concurrency: 1, TravelMode: "driving"},
		Server: ServerConfig{Port: "8080"},
		Cache:  CacheConfig{TTL: 5 * time.Minute},
	}
}

// Load reads .env (if present), then the optional YAML config file, then
// VRP_-prefixed environment variables. Later sources win.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	d := Defaults()
	v.SetDefault("db.driver", d.DB.Driver)
	v.SetDefault("db.url", d.DB.URL)
	v.SetDefault("bing.api_key", d.Bing.APIKey)
	v.SetDefault("bing.base_url", d.Bing.BaseURL)
	v.SetDefault("matrix.max_pairs", d.Matrix.MaxPairs)
	v.SetDefault("matrix.concurrency", d.Matrix.Concurrency)
	v.SetDefault("matrix.travel_mode", d.Matrix.TravelMode)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("load config: read %q: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Driver != "pgx" && c.DB.Driver != "sqlite3" {
		errs = append(errs, fmt.Errorf("db.driver must be pgx or sqlite3, got %q", c.DB.Driver))
	}
	if strings.TrimSpace(c.DB.URL) == "" {
		errs = append(errs, errors.New("db.url is required"))
	}
	if c.Matrix.MaxPairs <= 0 {
		errs = append(errs, fmt.Errorf("matrix.max_pairs must be positive, got %d", c.Matrix.MaxPairs))
	}
	if c.Matrix.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("matrix.concurrency must be at least 1, got %d", c.Matrix.Concurrency))
	}
	return errors.Join(errs...)
}

// Get returns the environment variable key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
