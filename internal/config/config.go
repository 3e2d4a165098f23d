// Package config loads the service configuration from YAML with defaults
// and environment overrides for secrets.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	File       string           `yaml:"-"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Completion CompletionConfig `yaml:"completion"`
	Plans      PlansConfig      `yaml:"plans"`
}

type ServerConfig struct {
	// RunMode is passed to gin: debug, release or test.
	RunMode      string `yaml:"run-mode" default:"release"`
	HttpPort     string `yaml:"http-port" default:":9000"`
	ReadTimeout  string `yaml:"read-timeout" default:"60s"`
	WriteTimeout string `yaml:"write-timeout" default:"120s"`
}

type LogConfig struct {
	// Level accepts anything zapcore.ParseLevel does.
	Level string `yaml:"level" default:"info"`
	// File is the log destination; empty means stderr.
	File       string `yaml:"file"`
	Production bool   `yaml:"production" default:"true"`
}

type DatabaseConfig struct {
	// Type is sqlite or postgres.
	Type            string `yaml:"type" default:"sqlite"`
	Path            string `yaml:"path" default:"storage/database/tripnotes.sqlite3"`
	DSN             string `yaml:"dsn"`
	MaxIdleConns    int    `yaml:"max-idle-conns" default:"10"`
	MaxOpenConns    int    `yaml:"max-open-conns" default:"50"`
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	AutoMigrate     bool   `yaml:"auto-migrate" default:"true"`
}

type CompletionConfig struct {
	// Provider is openai (any OpenAI-compatible endpoint) or gemini.
	Provider string `yaml:"provider" default:"openai"`
	BaseURL  string `yaml:"base-url" default:"https://api.openai.com/v1"`
	// Model defaults per provider when left empty.
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api-key"`
	Temperature float32 `yaml:"temperature" default:"0.4"`
	Timeout     string  `yaml:"timeout" default:"90s"`
}

const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-1.5-flash"
)

type PlansConfig struct {
	MaxPerProject         int    `yaml:"max-per-project" default:"20"`
	MaxActivitiesPerDay   int    `yaml:"max-activities-per-day" default:"4"`
	DetailedDaysThreshold int    `yaml:"detailed-days-threshold" default:"5"`
	DefaultPageSize       int    `yaml:"default-page-size" default:"10"`
	MaxPageSize           int    `yaml:"max-page-size" default:"100"`
	CompareCacheTTL       string `yaml:"compare-cache-ttl" default:"10m"`
}

// Load reads the YAML file at path. A missing file is not an error: the
// defaults plus environment overrides are returned instead.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	c := new(AppConfig)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	if path != "" {
		realpath, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Wrap(err, "resolve config path failed")
		}
		c.File = filepath.Clean(realpath)

		file, err := os.ReadFile(c.File)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(file, c); err != nil {
				return nil, errors.Wrap(err, "parse config file failed")
			}
		case os.IsNotExist(err):
		default:
			return nil, errors.Wrap(err, "read config file failed")
		}
	}

	c.applyEnv()
	return c, nil
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.HttpPort = ":" + v
	}
	if v := os.Getenv("POSTGRES_URL"); v != "" {
		c.Database.Type = "postgres"
		c.Database.DSN = v
	}
	gemini := strings.EqualFold(c.Completion.Provider, "gemini")
	if c.Completion.APIKey == "" {
		if gemini {
			c.Completion.APIKey = os.Getenv("GEMINI_API_KEY")
		} else {
			c.Completion.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if c.Completion.Model == "" {
		if gemini {
			c.Completion.Model = DefaultGeminiModel
		} else {
			c.Completion.Model = DefaultOpenAIModel
		}
	}
}

func (c *AppConfig) ReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 60*time.Second)
}

func (c *AppConfig) WriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 120*time.Second)
}

func (c *AppConfig) CompletionTimeout() time.Duration {
	return parseDuration(c.Completion.Timeout, 90*time.Second)
}

func (c *AppConfig) ConnMaxLifetime() time.Duration {
	return parseDuration(c.Database.ConnMaxLifetime, 30*time.Minute)
}

func (c *AppConfig) CompareCacheTTL() time.Duration {
	return parseDuration(c.Plans.CompareCacheTTL, 10*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}
