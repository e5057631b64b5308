// Command scribed is the document ingestion and summarization service.
//
// It accepts file uploads over HTTP, extracts their content through a
// multimodal model (PDFs are rasterized to page images first), persists
// one text artifact per file, and produces consolidated summaries of
// everything extracted so far.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nevindra/scribe"
	"github.com/nevindra/scribe/convert"
	"github.com/nevindra/scribe/internal/config"
	"github.com/nevindra/scribe/internal/server"
	"github.com/nevindra/scribe/observer"
	"github.com/nevindra/scribe/provider/gemini"
	"github.com/nevindra/scribe/provider/openaicompat"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Load(os.Getenv("SCRIBE_CONFIG"))
	if cfg.Extraction.APIKey == "" {
		logger.Error("missing extraction API key; set GEMINI_API_KEY")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Providers
	var extractionLLM scribe.Provider = gemini.New(cfg.Extraction.APIKey, cfg.Extraction.Model)
	var summaryLLM scribe.Provider = openaicompat.NewProvider(
		cfg.Summary.APIKey, cfg.Summary.Model, cfg.Summary.BaseURL,
		openaicompat.WithOptions(
			openaicompat.WithTemperature(0.1),
			openaicompat.WithTopP(1),
			openaicompat.WithMaxTokens(cfg.Summary.MaxTokens),
		))

	var uploader scribe.FileUploader
	if cfg.Extraction.UseFilesAPI {
		uploader = gemini.New(cfg.Extraction.APIKey, cfg.Extraction.Model)
	}

	// Observability
	var inst *observer.Instruments
	if cfg.Observer.Enabled {
		var shutdown func(context.Context) error
		var err error
		inst, shutdown, err = observer.Init(ctx, "scribe")
		if err != nil {
			logger.Error("observer init failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutCtx); err != nil {
				logger.Warn("observer shutdown", "error", err)
			}
		}()
		extractionLLM = observer.WrapProvider(extractionLLM, cfg.Extraction.Model, inst)
		summaryLLM = observer.WrapProvider(summaryLLM, cfg.Summary.Model, inst)
	}

	var rasterizer scribe.PageRasterizer = convert.NewRasterizer(
		convert.WithDPI(cfg.Extraction.DPI),
		convert.WithQuality(cfg.Extraction.JPEGQuality),
	)
	if inst != nil {
		rasterizer = observer.WrapRasterizer(rasterizer, inst)
	}

	sessions := scribe.NewSessionManager(cfg.Storage.Root)

	newProcessor := func(ws *scribe.Workspace) server.Processor {
		opts := []scribe.ExtractorOption{
			scribe.WithRasterizer(rasterizer),
			scribe.WithExtractorLogger(logger),
		}
		if uploader != nil {
			opts = append(opts, scribe.WithUploader(uploader))
		}
		return scribe.NewExtractor(ws, extractionLLM, opts...)
	}
	newSummarizer := func(ws *scribe.Workspace) server.Summarizer {
		return scribe.NewSummarizer(ws, summaryLLM, scribe.WithSummarizerLogger(logger))
	}

	srvOpts := []server.Option{
		server.WithMaxUploadBytes(cfg.Server.MaxUploadMB << 20),
		server.WithLogger(logger),
	}
	if inst != nil {
		srvOpts = append(srvOpts, server.WithInstruments(inst))
	}
	api := server.New(sessions, newProcessor, newSummarizer, srvOpts...)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.Handler(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Warn("shutdown error", "error", err)
	}
	logger.Info("stopped")
}
