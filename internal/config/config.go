package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Extraction ExtractionConfig `toml:"extraction"`
	Summary    SummaryConfig    `toml:"summary"`
	Storage    StorageConfig    `toml:"storage"`
	Observer   ObserverConfig   `toml:"observer"`
}

type ServerConfig struct {
	Addr        string `toml:"addr"`
	MaxUploadMB int64  `toml:"max_upload_mb"`
}

type ExtractionConfig struct {
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	DPI         float64 `toml:"dpi"`
	JPEGQuality int     `toml:"jpeg_quality"`
	// UseFilesAPI uploads PDFs and images via the Files API instead of
	// sending inline base64 data.
	UseFilesAPI bool `toml:"use_files_api"`
}

type SummaryConfig struct {
	Model     string `toml:"model"`
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	MaxTokens int    `toml:"max_tokens"`
}

type StorageConfig struct {
	Root string `toml:"root"`
}

type ObserverConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Server:     ServerConfig{Addr: ":8080", MaxUploadMB: 32},
		Extraction: ExtractionConfig{Model: "gemini-2.5-flash", DPI: 300, JPEGQuality: 95},
		Summary:    SummaryConfig{Model: "gpt-4o-mini", BaseURL: "https://api.openai.com/v1", MaxTokens: 9000},
		Storage:    StorageConfig{Root: "scribe-data"},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins).
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "scribe.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	// Env overrides
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Extraction.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Summary.APIKey = v
	}
	if v := os.Getenv("SCRIBE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SCRIBE_STORAGE_ROOT"); v != "" {
		cfg.Storage.Root = v
	}
	if v := os.Getenv("SCRIBE_EXTRACTION_MODEL"); v != "" {
		cfg.Extraction.Model = v
	}
	if v := os.Getenv("SCRIBE_SUMMARY_MODEL"); v != "" {
		cfg.Summary.Model = v
	}
	if v := os.Getenv("SCRIBE_SUMMARY_BASE_URL"); v != "" {
		cfg.Summary.BaseURL = v
	}
	if v := os.Getenv("SCRIBE_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Server.MaxUploadMB = n
		}
	}
	if os.Getenv("SCRIBE_OBSERVER_ENABLED") == "true" || os.Getenv("SCRIBE_OBSERVER_ENABLED") == "1" {
		cfg.Observer.Enabled = true
	}

	// Fallbacks
	if cfg.Summary.APIKey == "" {
		cfg.Summary.APIKey = cfg.Extraction.APIKey
	}

	return cfg
}
