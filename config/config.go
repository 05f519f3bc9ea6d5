package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	DatasetDir    string  `yaml:"dataset_dir"`
	PositiveFile  string  `yaml:"positive_file"`
	NegativeFile  string  `yaml:"negative_file"`
	StopwordsFile string  `yaml:"stopwords_file"`
	Split         float64 `yaml:"split"`
	SnapshotDir   string  `yaml:"snapshot_dir"`

	Report  ReportConfig  `yaml:"report"`
	Explain ExplainConfig `yaml:"explain"`
	Server  ServerConfig  `yaml:"server"`
}

type ReportConfig struct {
	Format        string `yaml:"format"`
	MaxMislabeled int    `yaml:"max_mislabeled"`
	TopTokens     int    `yaml:"top_tokens"`
	DBPath        string `yaml:"db_path"`
}

type ExplainConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// Timeout is the per-request explanation timeout.
func (e ExplainConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Defaults returns a Config with every default value set.
func Defaults() Config {
	return Config{
		DatasetDir:    "./datasets",
		PositiveFile:  "positive_tweets.json",
		NegativeFile:  "negative_tweets.json",
		StopwordsFile: "english_stopwords.txt",
		Split:         0.8,
		Report: ReportConfig{
			Format:        FormatText,
			MaxMislabeled: 20,
			TopTokens:     10,
			DBPath:        "./gosentiment.db",
		},
		Explain: ExplainConfig{
			BaseURL:     "https://api.openai.com/v1",
			APIKeyEnv:   "OPENAI_API_KEY",
			Model:       "gpt-3.5-turbo",
			TimeoutSecs: 30,
			MaxRetries:  2,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML config file over the defaults and validates the result.
// An empty path skips the file. GOSENTIMENT_CONFIG overrides the path and
// GOSENTIMENT_DB the run history database.
func Load(path string) (Config, error) {
	if envPath := os.Getenv("GOSENTIMENT_CONFIG"); envPath != "" {
		path = envPath
	}

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if envDB := os.Getenv("GOSENTIMENT_DB"); envDB != "" {
		cfg.Report.DBPath = envDB
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !(c.Split > 0 && c.Split <= 1) {
		return fmt.Errorf("split must be in (0, 1], got %v", c.Split)
	}
	if c.PositiveFile == "" || c.NegativeFile == "" {
		return fmt.Errorf("positive_file and negative_file are required")
	}
	switch c.Report.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown report format %q", c.Report.Format)
	}
	if c.Report.TopTokens < 0 {
		return fmt.Errorf("report.top_tokens must not be negative")
	}
	if c.Explain.Enabled {
		if c.Explain.APIKeyEnv == "" {
			return fmt.Errorf("explain.api_key_env is required when explain is enabled")
		}
		if c.Explain.TimeoutSecs <= 0 {
			return fmt.Errorf("explain.timeout_secs must be positive")
		}
		if c.Explain.MaxRetries < 0 {
			return fmt.Errorf("explain.max_retries must not be negative")
		}
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}
