package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cardioscan/heartrisk/internal/common"
	"github.com/cardioscan/heartrisk/internal/explain"
	"github.com/cardioscan/heartrisk/internal/extract"
	"github.com/cardioscan/heartrisk/internal/model"
	"github.com/cardioscan/heartrisk/internal/pipeline"
	"github.com/cardioscan/heartrisk/internal/preprocess"
	"github.com/cardioscan/heartrisk/internal/risk"
	"github.com/cardioscan/heartrisk/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config invalid", "error", err)
		os.Exit(1)
	}

	m, err := model.Load(cfg.Model.Dir, logger)
	if err != nil {
		logger.Error("model load failed", "error", err)
		os.Exit(1)
	}

	cat, err := risk.NewCategorizer(risk.Thresholds{
		Moderate: cfg.Risk.ModerateMin,
		High:     cfg.Risk.HighMin,
	})
	if err != nil {
		logger.Error("risk thresholds invalid", "error", err)
		os.Exit(1)
	}

	transformer := preprocess.NewTransformer(m.Artifact())
	explainer := explain.NewExplainer(m)
	extractor := extract.NewExtractor(extract.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		MinTextChars:  cfg.OCR.MinTextChars,
		MaxConcurrent: cfg.OCR.MaxConcurrent,
	}, logger)

	svc := pipeline.NewService(m, transformer, explainer, cat, extractor, cfg.Explain.TopK, logger)
	srv := server.New(svc, cfg.Server, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "model_version", m.Version())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown interrupted", "error", err)
	}
	logger.Info("stopped")
}
