package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"docextract/internal/extraction"
)

// Provider values for LLM_PROVIDER.
const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
)

// Backend values for VECTOR_BACKEND.
const (
	BackendMemory = "memory"
	BackendQdrant = "qdrant"
)

// Config holds all configuration for the application.
type Config struct {
	LLMProvider  string
	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string
	LLMTimeout   time.Duration

	EmbeddingBaseURL     string
	EmbeddingModelName   string
	EmbeddingQueryPrefix string
	EmbeddingTimeout     time.Duration
	// EmbeddingDim, when non-zero, is the vector size every embedding must have.
	EmbeddingDim int

	VectorBackend          string
	QdrantURL              string
	QdrantAPIKey           string
	QdrantCollectionPrefix string

	DBPath         string
	ProfilesPath   string
	DefaultProfile string
	OutputDir      string
	// InboxDir confines documents named by path in API requests.
	InboxDir string

	PdftotextPath string
	PdftoppmPath  string
	TesseractPath string
	OCRLang       string
	OCRDPI        int

	ParserRepair     bool
	PromptMaxContext int
	BatchConcurrency int

	APIPort   string
	LogLevel  string
	LogFormat string

	// Profiles holds the built-in profiles merged with those from ProfilesPath.
	Profiles map[string]Profile
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the result.
// If a .env file exists in the current directory or a parent, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMProvider:  strings.ToLower(getEnv("LLM_PROVIDER", ProviderHTTP)),
		LLMBaseURL:   getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName: getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:    getEnv("LLM_API_KEY", ""),

		EmbeddingBaseURL:     getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName:   getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		EmbeddingQueryPrefix: os.Getenv("EMBEDDING_QUERY_PREFIX"),

		VectorBackend:          strings.ToLower(getEnv("VECTOR_BACKEND", BackendMemory)),
		QdrantURL:              getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:           getEnv("QDRANT_API_KEY", ""),
		QdrantCollectionPrefix: getEnv("QDRANT_COLLECTION_PREFIX", "docextract"),

		DBPath:         getEnv("DB_PATH", "./data/docextract.db"),
		ProfilesPath:   getEnv("PROFILES_PATH", ""),
		DefaultProfile: getEnv("DEFAULT_PROFILE", "students"),
		OutputDir:      getEnv("OUTPUT_DIR", "./out"),
		InboxDir:       getEnv("INBOX_DIR", "./inbox"),

		PdftotextPath: getEnv("PDFTOTEXT_PATH", "pdftotext"),
		PdftoppmPath:  getEnv("PDFTOPPM_PATH", "pdftoppm"),
		TesseractPath: getEnv("TESSERACT_PATH", "tesseract"),
		OCRLang:       getEnv("OCR_LANG", "eng"),

		APIPort:   getEnv("API_PORT", "9000"),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}
	if cfg.EmbeddingTimeout, err = getDuration("EMBEDDING_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.EmbeddingDim, err = getNonNegativeInt("EMBEDDING_DIM", 0); err != nil {
		return nil, err
	}
	if cfg.OCRDPI, err = getPositiveInt("OCR_DPI", 300); err != nil {
		return nil, err
	}
	if cfg.PromptMaxContext, err = getPositiveInt("PROMPT_MAX_CONTEXT", 6000); err != nil {
		return nil, err
	}
	if cfg.BatchConcurrency, err = getPositiveInt("BATCH_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.ParserRepair, err = getBool("PARSER_REPAIR", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Profiles = Builtin()
	if cfg.ProfilesPath != "" {
		loaded, err := LoadProfiles(cfg.ProfilesPath)
		if err != nil {
			return nil, err
		}
		for name, p := range loaded {
			cfg.Profiles[name] = p
		}
	}
	if _, ok := cfg.Profiles[cfg.DefaultProfile]; !ok {
		return nil, fmt.Errorf("DEFAULT_PROFILE %q is not a known profile: %w", cfg.DefaultProfile, extraction.ErrConfig)
	}

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderHTTP, ProviderOpenAI:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q: %w", ProviderHTTP, ProviderOpenAI, c.LLMProvider, extraction.ErrConfig)
	}
	switch c.VectorBackend {
	case BackendMemory, BackendQdrant:
	default:
		return fmt.Errorf("VECTOR_BACKEND must be %q or %q, got %q: %w", BackendMemory, BackendQdrant, c.VectorBackend, extraction.ErrConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q: %w", c.LogFormat, extraction.ErrConfig)
	}
	return nil
}

// Profile returns the named profile, or the default profile when name is empty.
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q: %w", name, extraction.ErrConfig)
	}
	return p, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %v: %w", key, err, extraction.ErrConfig)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0: %w", key, extraction.ErrConfig)
	}
	return n, nil
}

func getNonNegativeInt(key string, defaultValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %v: %w", key, err, extraction.ErrConfig)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative: %w", key, extraction.ErrConfig)
	}
	return n, nil
}

// getDuration accepts Go durations ("90s") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		s = strconv.Itoa(secs) + "s"
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %v: %w", key, err, extraction.ErrConfig)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0: %w", key, extraction.ErrConfig)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %v: %w", key, err, extraction.ErrConfig)
	}
	return b, nil
}
