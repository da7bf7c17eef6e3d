package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LLM providers for the vehicle-name fallback.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderVertex = "vertex"
)

// Config holds all application configuration
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	OCR      OCRConfig      `yaml:"ocr"`
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Server   ServerConfig   `yaml:"server"`
	LogLevel string         `yaml:"log_level"`
}

// PathsConfig holds the working directories of a run
type PathsConfig struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	TextDir   string `yaml:"text_dir"`
	SaveText  bool   `yaml:"save_text"`
}

// OCRConfig holds text-acquisition configuration
type OCRConfig struct {
	TextSource  string        `yaml:"text_source"` // native | pdftotext
	Engine      string        `yaml:"engine"`      // tesseract | gosseract
	Lang        string        `yaml:"lang"`
	DPI         int           `yaml:"dpi"`
	PSM         int           `yaml:"psm"`
	OEM         int           `yaml:"oem"`
	Preprocess  bool          `yaml:"preprocess"`
	PageTimeout time.Duration `yaml:"page_timeout"`
	TessdataDir string        `yaml:"tessdata_dir"`
}

// LLMConfig holds remote fallback configuration
type LLMConfig struct {
	Provider       string        `yaml:"provider"`
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	VertexProject  string        `yaml:"vertex_project"`
	VertexRegion   string        `yaml:"vertex_region"`
	VertexModel    string        `yaml:"vertex_model"`
	Temperature    float32       `yaml:"temperature"`
	Timeout        time.Duration `yaml:"timeout"`
	PromptChars    int           `yaml:"prompt_chars"`
	RatePerSec     float64       `yaml:"rate_per_sec"`
	RetryAttempts  int           `yaml:"retry_attempts"`
	BreakerEnabled bool          `yaml:"breaker_enabled"`
}

// PipelineConfig holds batch driver configuration
type PipelineConfig struct {
	Workers         int           `yaml:"workers"`
	DocumentTimeout time.Duration `yaml:"document_timeout"`
	SummaryXLSX     string        `yaml:"summary_xlsx"`
}

// ServerConfig holds daemon configuration
type ServerConfig struct {
	GRPCAddr      string        `yaml:"grpc_addr"`
	MetricsAddr   string        `yaml:"metrics_addr"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	QueueSize     int           `yaml:"queue_size"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			InputDir:  "contracts",
			OutputDir: "filtered_output",
			TextDir:   "extracted_text",
		},
		OCR: OCRConfig{
			TextSource: "native",
			Engine:     "tesseract",
			Lang:       "eng",
			DPI:        300,
		},
		LLM: LLMConfig{
			Provider:       ProviderNone,
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			VertexRegion:   "us-central1",
			VertexModel:    "gemini-1.5-flash",
			Timeout:        30 * time.Second,
			PromptChars:    1500,
			RatePerSec:     2,
			RetryAttempts:  3,
			BreakerEnabled: true,
		},
		Pipeline: PipelineConfig{
			Workers:         1,
			DocumentTimeout: 5 * time.Minute,
		},
		Server: ServerConfig{
			GRPCAddr:      ":8080",
			MetricsAddr:   ":9090",
			WatchDebounce: 500 * time.Millisecond,
			QueueSize:     256,
		},
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from environment variables on top of the defaults
func LoadConfig() *Config {
	cfg := DefaultConfig()
	applyEnv(cfg)
	return cfg
}

// LoadConfigFile reads a YAML file over the defaults, then applies environment
// variables. An empty path behaves like LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "parse config file "+path, err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(c *Config) {
	c.Paths.InputDir = getEnv("INPUT_DIR", c.Paths.InputDir)
	c.Paths.OutputDir = getEnv("OUTPUT_DIR", c.Paths.OutputDir)
	c.Paths.TextDir = getEnv("TEXT_DIR", c.Paths.TextDir)
	c.Paths.SaveText = getEnvAsBool("SAVE_TEXT", c.Paths.SaveText)

	c.OCR.TextSource = getEnv("TEXT_SOURCE", c.OCR.TextSource)
	c.OCR.Engine = getEnv("OCR_ENGINE", c.OCR.Engine)
	c.OCR.Lang = getEnv("OCR_LANG", c.OCR.Lang)
	c.OCR.DPI = getEnvAsInt("OCR_DPI", c.OCR.DPI)
	c.OCR.PSM = getEnvAsInt("OCR_PSM", c.OCR.PSM)
	c.OCR.OEM = getEnvAsInt("OCR_OEM", c.OCR.OEM)
	c.OCR.Preprocess = getEnvAsBool("OCR_PREPROCESS", c.OCR.Preprocess)
	c.OCR.PageTimeout = getEnvAsDuration("OCR_PAGE_TIMEOUT", c.OCR.PageTimeout)
	c.OCR.TessdataDir = getEnv("TESSDATA_PREFIX", c.OCR.TessdataDir)

	c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("OPENAI_MODEL", c.LLM.Model)
	c.LLM.VertexProject = getEnv("VERTEX_PROJECT", c.LLM.VertexProject)
	c.LLM.VertexRegion = getEnv("VERTEX_REGION", c.LLM.VertexRegion)
	c.LLM.VertexModel = getEnv("VERTEX_MODEL", c.LLM.VertexModel)
	c.LLM.Temperature = getEnvAsFloat32("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.PromptChars = getEnvAsInt("LLM_PROMPT_CHARS", c.LLM.PromptChars)
	c.LLM.RatePerSec = getEnvAsFloat64("LLM_RATE_PER_SEC", c.LLM.RatePerSec)
	c.LLM.RetryAttempts = getEnvAsInt("LLM_RETRY_ATTEMPTS", c.LLM.RetryAttempts)
	c.LLM.BreakerEnabled = getEnvAsBool("LLM_BREAKER_ENABLED", c.LLM.BreakerEnabled)
	c.LLM.Provider = strings.ToLower(getEnv("LLM_PROVIDER", c.LLM.Provider))

	c.Pipeline.Workers = getEnvAsInt("WORKERS", c.Pipeline.Workers)
	c.Pipeline.DocumentTimeout = getEnvAsDuration("DOCUMENT_TIMEOUT", c.Pipeline.DocumentTimeout)
	c.Pipeline.SummaryXLSX = getEnv("SUMMARY_XLSX", c.Pipeline.SummaryXLSX)

	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.Server.MetricsAddr = getEnv("METRICS_ADDR", c.Server.MetricsAddr)
	c.Server.WatchDebounce = getEnvAsDuration("WATCH_DEBOUNCE", c.Server.WatchDebounce)
	c.Server.QueueSize = getEnvAsInt("QUEUE_SIZE", c.Server.QueueSize)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("paths.input_dir", c.Paths.InputDir, Required).
		Field("paths.output_dir", c.Paths.OutputDir, Required).
		Field("ocr.text_source", c.OCR.TextSource, OneOf("native", "pdftotext")).
		Field("ocr.engine", c.OCR.Engine, OneOf("tesseract", "gosseract")).
		Field("ocr.dpi", c.OCR.DPI, Positive).
		Field("pipeline.workers", c.Pipeline.Workers, Positive).
		Field("llm.provider", c.LLM.Provider, OneOf(ProviderNone, ProviderOpenAI, ProviderVertex))

	if c.Paths.SaveText {
		v.Field("paths.text_dir", c.Paths.TextDir, Required)
	}
	switch c.LLM.Provider {
	case ProviderOpenAI:
		v.Field("llm.api_key", c.LLM.APIKey, Required).
			Field("llm.prompt_chars", c.LLM.PromptChars, Positive)
	case ProviderVertex:
		v.Field("llm.vertex_project", c.LLM.VertexProject, Required).
			Field("llm.vertex_region", c.LLM.VertexRegion, Required).
			Field("llm.prompt_chars", c.LLM.PromptChars, Positive)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

// String renders the config without secrets, for startup logs.
func (c *Config) String() string {
	key := ""
	if c.LLM.APIKey != "" {
		key = "***"
	}
	return fmt.Sprintf("in=%s out=%s text=%s(save=%t) source=%s engine=%s provider=%s key=%s workers=%d",
		c.Paths.InputDir, c.Paths.OutputDir, c.Paths.TextDir, c.Paths.SaveText,
		c.OCR.TextSource, c.OCR.Engine, c.LLM.Provider, key, c.Pipeline.Workers)
}
