package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"impactjobs-engine/internal/domain"
)

type SourceConfig struct {
	Enabled       bool    `yaml:"enabled"`
	DelaySeconds  float64 `yaml:"delay_seconds"`
	JitterSeconds float64 `yaml:"jitter_seconds"`
	PerPage       int     `yaml:"per_page"`
}

func (s SourceConfig) Delay() time.Duration  { return seconds(s.DelaySeconds) }
func (s SourceConfig) Jitter() time.Duration { return seconds(s.JitterSeconds) }

type Config struct {
	App struct {
		DataDir  string `yaml:"data_dir"`
		LogLevel string `yaml:"log_level"`
		CSVPath  string `yaml:"csv_path"`
	} `yaml:"app"`

	Search struct {
		Terms             []string `yaml:"terms"`
		Locations         []string `yaml:"locations"`
		ResultsWanted     int      `yaml:"results_wanted"`
		HoursOld          int      `yaml:"hours_old"`
		DescriptionFormat string   `yaml:"description_format"`
		MaxPages          int      `yaml:"max_pages"`
	} `yaml:"search"`

	Sources map[string]SourceConfig `yaml:"sources"`

	HTTP struct {
		TimeoutSeconds float64 `yaml:"timeout_seconds"`
		ReqPerSec      float64 `yaml:"req_per_sec"`
		Burst          int     `yaml:"burst"`
		UserAgent      string  `yaml:"user_agent"`
	} `yaml:"http"`

	Apify struct {
		Enabled        bool    `yaml:"enabled"`
		BaseURL        string  `yaml:"base_url"`
		PollSeconds    float64 `yaml:"poll_seconds"`
		MaxWaitSeconds float64 `yaml:"max_wait_seconds"`
		// Token is never read from or written to the file.
		Token string `yaml:"-"`
	} `yaml:"apify"`

	Classifier struct {
		RulesFile string `yaml:"rules_file"`
	} `yaml:"classifier"`
}

// Source returns the settings for name, falling back to defaults for
// sources the file doesn't mention.
func (c Config) Source(name string) SourceConfig {
	if s, ok := c.Sources[name]; ok {
		return s
	}
	return SourceConfig{Enabled: true, DelaySeconds: 2, JitterSeconds: 3, PerPage: 20}
}

func (c Config) Input() domain.ScraperInput {
	return domain.ScraperInput{
		ResultsWanted:     c.Search.ResultsWanted,
		HoursOld:          c.Search.HoursOld,
		DescriptionFormat: domain.ParseDescriptionFormat(c.Search.DescriptionFormat),
	}
}

// Load reads .env (if present), applies defaults, the YAML file at path and
// then environment overrides, and normalizes the result.
func Load(path string) (Config, Validation, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, Validation{}, fmt.Errorf("config read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, Validation{}, fmt.Errorf("config parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)

	out, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		return out, res, res.Err()
	}
	return out, res, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("IMPACTJOBS_DATA_DIR")); v != "" {
		cfg.App.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("IMPACTJOBS_LOG_LEVEL")); v != "" {
		cfg.App.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("APIFY_API_TOKEN")); v != "" {
		cfg.Apify.Token = v
	}
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
