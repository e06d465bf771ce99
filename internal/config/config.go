package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	LLM        LLMConfig
	OCR        OCRConfig
	Document   DocumentConfig
	S3         S3Config
	Extraction ExtractionConfig
	Auth       AuthConfig
	CORS       CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LLMConfig holds settings for the chat completion provider. Credentials are
// handed to the client at construction and never read from globals.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
	Temperature float64 `mapstructure:"temperature"`
}

// OCRConfig holds tesseract and rasterization settings.
type OCRConfig struct {
	Language    string `mapstructure:"language"`
	TessdataDir string `mapstructure:"tessdata_dir"`
	Pdftoppm    string `mapstructure:"pdftoppm"`
	DPI         int    `mapstructure:"dpi"`
	MaxPages    int    `mapstructure:"max_pages"`
	Preprocess  bool   `mapstructure:"preprocess"`
}

// DocumentConfig holds settings for downloading source documents.
type DocumentConfig struct {
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	UserAgent   string `mapstructure:"user_agent"`
	MaxSizeMB   int64  `mapstructure:"max_size_mb"`
}

// S3Config holds AWS S3 settings used for s3:// document references.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Enabled reports whether s3:// references can be resolved.
func (s *S3Config) Enabled() bool {
	return s.Region != ""
}

// ExtractionConfig tunes the bill extraction pipeline.
type ExtractionConfig struct {
	OCRConcurrency         int  `mapstructure:"ocr_concurrency"`
	RefineLimit            int  `mapstructure:"refine_limit"`
	DiscoverEmbeddedImages bool `mapstructure:"discover_embedded_images"`
	MaxEmbeddedImages      int  `mapstructure:"max_embedded_images"`
}

// AuthConfig holds optional bearer token settings. An empty secret disables auth.
type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	Issuer      string        `mapstructure:"issuer"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
}

// Enabled reports whether requests must carry a bearer token.
func (a *AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the MEDBILL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// LLM defaults
	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout_secs", 120)
	v.SetDefault("llm.temperature", 0.0)

	// OCR defaults
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.tessdata_dir", "")
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.dpi", 220)
	v.SetDefault("ocr.max_pages", 0)
	v.SetDefault("ocr.preprocess", true)

	// Document download defaults
	v.SetDefault("document.timeout_secs", 20)
	v.SetDefault("document.user_agent", "BillExtractor/1.0")
	v.SetDefault("document.max_size_mb", 50)

	// S3 defaults (empty region disables s3:// references)
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")

	// Extraction defaults
	v.SetDefault("extraction.ocr_concurrency", 4)
	v.SetDefault("extraction.refine_limit", 6)
	v.SetDefault("extraction.discover_embedded_images", false)
	v.SetDefault("extraction.max_embedded_images", 4)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "medbill")
	v.SetDefault("auth.token_expiry", "720h")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                         "MEDBILL_SERVER_PORT",
		"server.read_timeout":                 "MEDBILL_SERVER_READ_TIMEOUT",
		"server.write_timeout":                "MEDBILL_SERVER_WRITE_TIMEOUT",
		"server.environment":                  "MEDBILL_SERVER_ENVIRONMENT",
		"llm.provider":                        "MEDBILL_LLM_PROVIDER",
		"llm.api_key":                         "MEDBILL_LLM_API_KEY",
		"llm.model":                           "MEDBILL_LLM_MODEL",
		"llm.base_url":                        "MEDBILL_LLM_BASE_URL",
		"llm.timeout_secs":                    "MEDBILL_LLM_TIMEOUT_SECS",
		"llm.temperature":                     "MEDBILL_LLM_TEMPERATURE",
		"ocr.language":                        "MEDBILL_OCR_LANGUAGE",
		"ocr.tessdata_dir":                    "MEDBILL_OCR_TESSDATA_DIR",
		"ocr.pdftoppm":                        "MEDBILL_OCR_PDFTOPPM",
		"ocr.dpi":                             "MEDBILL_OCR_DPI",
		"ocr.max_pages":                       "MEDBILL_OCR_MAX_PAGES",
		"ocr.preprocess":                      "MEDBILL_OCR_PREPROCESS",
		"document.timeout_secs":               "MEDBILL_DOCUMENT_TIMEOUT_SECS",
		"document.user_agent":                 "MEDBILL_DOCUMENT_USER_AGENT",
		"document.max_size_mb":                "MEDBILL_DOCUMENT_MAX_SIZE_MB",
		"s3.region":                           "MEDBILL_S3_REGION",
		"s3.endpoint":                         "MEDBILL_S3_ENDPOINT",
		"s3.access_key":                       "MEDBILL_S3_ACCESS_KEY",
		"s3.secret_key":                       "MEDBILL_S3_SECRET_KEY",
		"extraction.ocr_concurrency":          "MEDBILL_EXTRACTION_OCR_CONCURRENCY",
		"extraction.refine_limit":             "MEDBILL_EXTRACTION_REFINE_LIMIT",
		"extraction.discover_embedded_images": "MEDBILL_EXTRACTION_DISCOVER_EMBEDDED_IMAGES",
		"extraction.max_embedded_images":      "MEDBILL_EXTRACTION_MAX_EMBEDDED_IMAGES",
		"auth.jwt_secret":                     "MEDBILL_AUTH_JWT_SECRET",
		"auth.issuer":                         "MEDBILL_AUTH_ISSUER",
		"auth.token_expiry":                   "MEDBILL_AUTH_TOKEN_EXPIRY",
		"cors.allowed_origins":                "MEDBILL_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if MEDBILL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("MEDBILL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.LLM = LLMConfig{
		Provider:    v.GetString("llm.provider"),
		APIKey:      v.GetString("llm.api_key"),
		Model:       v.GetString("llm.model"),
		BaseURL:     v.GetString("llm.base_url"),
		TimeoutSecs: v.GetInt("llm.timeout_secs"),
		Temperature: v.GetFloat64("llm.temperature"),
	}
	// GROQ_API_KEY / GROQ_MODEL are honoured for drop-in compatibility with existing deployments.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if model := os.Getenv("GROQ_MODEL"); model != "" && os.Getenv("MEDBILL_LLM_MODEL") == "" {
		cfg.LLM.Model = model
	}
	cfg.OCR = OCRConfig{
		Language:    v.GetString("ocr.language"),
		TessdataDir: v.GetString("ocr.tessdata_dir"),
		Pdftoppm:    v.GetString("ocr.pdftoppm"),
		DPI:         v.GetInt("ocr.dpi"),
		MaxPages:    v.GetInt("ocr.max_pages"),
		Preprocess:  v.GetBool("ocr.preprocess"),
	}
	cfg.Document = DocumentConfig{
		TimeoutSecs: v.GetInt("document.timeout_secs"),
		UserAgent:   v.GetString("document.user_agent"),
		MaxSizeMB:   v.GetInt64("document.max_size_mb"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Extraction = ExtractionConfig{
		OCRConcurrency:         v.GetInt("extraction.ocr_concurrency"),
		RefineLimit:            v.GetInt("extraction.refine_limit"),
		DiscoverEmbeddedImages: v.GetBool("extraction.discover_embedded_images"),
		MaxEmbeddedImages:      v.GetInt("extraction.max_embedded_images"),
	}
	cfg.Auth = AuthConfig{
		JWTSecret:   v.GetString("auth.jwt_secret"),
		Issuer:      v.GetString("auth.issuer"),
		TokenExpiry: v.GetDuration("auth.token_expiry"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
