package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Model   ModelConfig
	OCR     OCRConfig
	Risk    RiskConfig
	Explain ExplainConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	CORSOrigins    []string
}

// ModelConfig holds model artifact configuration
type ModelConfig struct {
	Dir string // directory containing artifact.json; empty -> embedded default
}

// OCRConfig holds document extraction configuration
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
	MaxPages      int
	MinTextChars  int // below this, a PDF text layer is treated as empty
	MaxConcurrent int64
}

// RiskConfig holds risk tier boundaries
type RiskConfig struct {
	ModerateMin float64
	HighMin     float64
}

// ExplainConfig holds explainability configuration
type ExplainConfig struct {
	TopK int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           getEnv("HTTP_ADDR", ":8080"),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 25*time.Second),
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
			CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Model: ModelConfig{
			Dir: getEnv("MODEL_DIR", ""),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 10),
			MinTextChars:  getEnvAsInt("PDF_MIN_TEXT_CHARS", 32),
			MaxConcurrent: getEnvAsInt64("OCR_MAX_CONCURRENT", 4),
		},
		Risk: RiskConfig{
			ModerateMin: getEnvAsFloat64("RISK_MODERATE_MIN", 0.33),
			HighMin:     getEnvAsFloat64("RISK_HIGH_MIN", 0.67),
		},
		Explain: ExplainConfig{
			TopK: getEnvAsInt("EXPLAIN_TOP_K", 5),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrValidation)
	}
	if c.Server.RequestTimeout <= 0 {
		return NewAppError("CONFIG_ERROR", "REQUEST_TIMEOUT must be positive", ErrValidation)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_BYTES must be positive", ErrValidation)
	}
	if c.Risk.ModerateMin <= 0 || c.Risk.ModerateMin >= c.Risk.HighMin || c.Risk.HighMin > 1 {
		return NewAppError("CONFIG_ERROR", "risk thresholds must satisfy 0 < moderate < high <= 1", ErrValidation)
	}
	if c.Explain.TopK < 1 {
		return NewAppError("CONFIG_ERROR", "EXPLAIN_TOP_K must be at least 1", ErrValidation)
	}
	if c.OCR.MaxConcurrent < 1 {
		return NewAppError("CONFIG_ERROR", "OCR_MAX_CONCURRENT must be at least 1", ErrValidation)
	}
	return nil
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
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

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
