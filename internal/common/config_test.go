package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 25*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.NotEmpty(t, cfg.Server.CORSOrigins)
	assert.Equal(t, "pdftotext", cfg.OCR.Pdftotext)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 0.33, cfg.Risk.ModerateMin)
	assert.Equal(t, 0.67, cfg.Risk.HighMin)
	assert.Equal(t, 5, cfg.Explain.TopK)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("RISK_MODERATE_MIN", "0.25")
	t.Setenv("EXPLAIN_TOP_K", "7")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 0.25, cfg.Risk.ModerateMin)
	assert.Equal(t, 7, cfg.Explain.TopK)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoadConfig_BadValueFallsBackToDefault(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("OCR_DPI", "very high")

	cfg := LoadConfig()
	assert.Equal(t, 25*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 300, cfg.OCR.DPI)
}

func TestConfig_ValidateRejectsBadThresholds(t *testing.T) {
	cfg := LoadConfig()
	cfg.Risk.ModerateMin = 0.8
	cfg.Risk.HighMin = 0.5
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Explain.TopK = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Server.RequestTimeout = 0
	assert.Error(t, cfg.Validate())
}
