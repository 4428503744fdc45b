// Package config loads runtime configuration from the environment, with an
// optional YAML config file overlay. Flags set on the CLI override both.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Paths
	InputDir   string
	OutputDir  string
	QueryFile  string // relative names resolve against InputDir
	ReportName string

	// Analysis
	TopK    int
	Workers int

	// Extra outputs
	WritePDF      bool
	WriteMarkdown bool

	// Serve mode
	Port         string
	APIKey       string // empty disables auth
	MaxQueueSize int
	RunTTL       time.Duration
}

// Load builds the configuration from DOCSIFT_* environment variables with
// defaults.
func Load() Config {
	cfg := Config{
		InputDir:   envOr("DOCSIFT_INPUT_DIR", "input"),
		OutputDir:  envOr("DOCSIFT_OUTPUT_DIR", "output"),
		QueryFile:  envOr("DOCSIFT_QUERY_FILE", "query.json"),
		ReportName: envOr("DOCSIFT_REPORT_NAME", "report.json"),

		TopK:    envInt("DOCSIFT_TOP_K", 5),
		Workers: envInt("DOCSIFT_WORKERS", 4),

		WritePDF:      envBool("DOCSIFT_WRITE_PDF", false),
		WriteMarkdown: envBool("DOCSIFT_WRITE_MARKDOWN", false),

		Port:         envOr("DOCSIFT_PORT", "8095"),
		APIKey:       os.Getenv("DOCSIFT_API_KEY"),
		MaxQueueSize: envInt("DOCSIFT_MAX_QUEUE_SIZE", 32),
		RunTTL:       envDuration("DOCSIFT_RUN_TTL", 1*time.Hour),
	}
	return cfg
}

func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top-k must be positive, got %d", c.TopK)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MaxQueueSize <= 0 {
		return fmt.Errorf("queue size must be positive, got %d", c.MaxQueueSize)
	}
	if c.RunTTL <= 0 {
		return fmt.Errorf("run TTL must be positive, got %s", c.RunTTL)
	}
	return nil
}

// fileConfig is the YAML config file schema. All fields are optional; only
// set values override the current configuration.
type fileConfig struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Query   string `yaml:"query"`
	Report  string `yaml:"report"`
	TopK    *int   `yaml:"topK"`
	Workers *int   `yaml:"workers"`

	PDF      *bool `yaml:"pdf"`
	Markdown *bool `yaml:"markdown"`

	Serve struct {
		Port      string `yaml:"port"`
		Key       string `yaml:"key"`
		QueueSize *int   `yaml:"queueSize"`
		RunTTL    string `yaml:"runTTL"`
	} `yaml:"serve"`
}

// ApplyFile overlays the YAML file at path onto c.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Input != "" {
		c.InputDir = fc.Input
	}
	if fc.Output != "" {
		c.OutputDir = fc.Output
	}
	if fc.Query != "" {
		c.QueryFile = fc.Query
	}
	if fc.Report != "" {
		c.ReportName = fc.Report
	}
	if fc.TopK != nil {
		c.TopK = *fc.TopK
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.PDF != nil {
		c.WritePDF = *fc.PDF
	}
	if fc.Markdown != nil {
		c.WriteMarkdown = *fc.Markdown
	}
	if fc.Serve.Port != "" {
		c.Port = fc.Serve.Port
	}
	if fc.Serve.Key != "" {
		c.APIKey = fc.Serve.Key
	}
	if fc.Serve.QueueSize != nil {
		c.MaxQueueSize = *fc.Serve.QueueSize
	}
	if fc.Serve.RunTTL != "" {
		d, err := time.ParseDuration(fc.Serve.RunTTL)
		if err != nil {
			return fmt.Errorf("parse config file %s: runTTL: %w", path, err)
		}
		c.RunTTL = d
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
