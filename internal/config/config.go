// Package config loads and validates runtime configuration once at startup.
// Values come from the environment (with .env support); CLI flags override
// the directories and worker bound in main.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Provider identifiers accepted by --provider / LLM_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderFake      = "fake"
)

type Config struct {
	Provider   string
	DataDir    string
	OutputDir  string
	TargetLang string

	// MaxInFlight caps simultaneously processed files (K).
	MaxInFlight int

	Anthropic ProviderConfig
	OpenAI    ProviderConfig
	Gemini    ProviderConfig

	// RateRPS/RateBurst throttle provider calls; 0 disables the limiter.
	RateRPS    float64
	RateBurst  int
	MaxRetries int

	// RunstoreDSN enables Postgres run history when non-empty.
	RunstoreDSN string

	Artifact ArtifactConfig
}

type ProviderConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads .env (when present) and the environment. It does not parse
// flags; main overlays flag values before calling Validate.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Provider:    strings.ToLower(firstNonEmpty(os.Getenv("LLM_PROVIDER"), ProviderAnthropic)),
		DataDir:     firstNonEmpty(os.Getenv("DATA_DIR"), "data"),
		OutputDir:   firstNonEmpty(os.Getenv("OUTPUT_DIR"), "results"),
		TargetLang:  firstNonEmpty(os.Getenv("REWRITE_TARGET_LANG"), "Rust"),
		MaxInFlight: envInt("MAX_WORKERS", 2),
		Anthropic: ProviderConfig{
			APIKey:    os.Getenv("ANTHROPIC_API_KEY"),
			Model:     os.Getenv("ANTHROPIC_MODEL_NAME"),
			MaxTokens: envInt("ANTHROPIC_MAX_TOKENS", 4096),
		},
		OpenAI: ProviderConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:     os.Getenv("OPENAI_MODEL_NAME"),
			MaxTokens: envInt("OPENAI_MAX_TOKENS", 2048),
		},
		Gemini: ProviderConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  os.Getenv("GEMINI_MODEL_NAME"),
		},
		RateRPS:     envFloat("LLM_RPS", 0),
		RateBurst:   envInt("LLM_BURST", 1),
		MaxRetries:  envInt("LLM_MAX_RETRIES", 3),
		RunstoreDSN: os.Getenv("RUNSTORE_PG_DSN"),
		Artifact:    loadArtifactConfig(),
	}
}

// Validate checks the startup invariants: a known provider with its API key
// present, and a sane concurrency bound. Per-file processing never
// re-validates configuration.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if strings.TrimSpace(c.Anthropic.APIKey) == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderOpenAI:
		if strings.TrimSpace(c.OpenAI.APIKey) == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderGemini:
		if strings.TrimSpace(c.Gemini.APIKey) == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderFake:
		// offline mode, no credentials
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	if c.MaxInFlight < 1 {
		return fmt.Errorf("max workers must be >= 1, got %d", c.MaxInFlight)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data dir is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output dir is required")
	}
	return nil
}

func loadArtifactConfig() ArtifactConfig {
	endpoint := strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "licenseflow-artifacts"),
		UseSSL:    envBool("ARTIFACT_S3_USE_SSL", true),
	}
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
