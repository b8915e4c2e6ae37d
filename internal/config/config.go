package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	App    AppConfig    `yaml:"app"`
	Data   DataConfig   `yaml:"data"`
	Google GoogleConfig `yaml:"google"`
	Redis  RedisConfig  `yaml:"redis"`
	DB     DBConfig     `yaml:"database"`
}

type AppConfig struct {
	Name           string   `yaml:"name"`
	Env            string   `yaml:"env"`
	Port           int      `yaml:"port"`
	Debug          bool     `yaml:"debug"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DataConfig struct {
	RawCSV   string `yaml:"raw_csv"`
	CleanCSV string `yaml:"clean_csv"`
	ModelDir string `yaml:"model_dir"`
}

type GoogleConfig struct {
	APIKey string `yaml:"api_key"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	TTL      time.Duration `yaml:"ttl"`
}

// DBConfig points at the optional prediction log. An empty URL disables it.
type DBConfig struct {
	URL string `yaml:"url"`
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:           "taxipred",
			Env:            "development",
			Port:           8000,
			RateLimitRPS:   20,
			RateLimitBurst: 40,
			AllowedOrigins: []string{"http://localhost:8501"},
		},
		Data: DataConfig{
			RawCSV:   "data/taxi_trip_pricing.csv",
			CleanCSV: "data/taxi_trip_pricing_clean.csv",
			ModelDir: "models",
		},
		Redis: RedisConfig{
			TTL: 24 * time.Hour,
		},
	}
}

// Load reads an optional YAML file over the defaults, then applies env
// overrides and validates. A missing file is not an error so the binaries run
// with defaults alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromEnv() {
	if env := os.Getenv("APP_ENV"); env != "" {
		c.App.Env = env
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.App.Port = p
		}
	}
	if key := os.Getenv("GMAPS_API_KEY"); key != "" {
		c.Google.APIKey = key
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		c.Redis.Password = pw
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.DB.URL = url
	}
	if dir := os.Getenv("MODEL_DIR"); dir != "" {
		c.Data.ModelDir = dir
	}
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.App.Port)
	}
	if c.Data.CleanCSV == "" {
		return fmt.Errorf("clean dataset path is required")
	}
	if c.Data.ModelDir == "" {
		return fmt.Errorf("model directory is required")
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = 24 * time.Hour
	}
	return nil
}
