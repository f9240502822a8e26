package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	httpadapter "github.com/PabloGalante/fluid101/internal/adapters/http"
	"github.com/PabloGalante/fluid101/internal/adapters/llm"
	memstore "github.com/PabloGalante/fluid101/internal/adapters/storage/memory"
	"github.com/PabloGalante/fluid101/internal/app/analysis"
	"github.com/PabloGalante/fluid101/internal/app/completion"
	"github.com/PabloGalante/fluid101/internal/app/conversation"
	"github.com/PabloGalante/fluid101/internal/app/notes"
	"github.com/PabloGalante/fluid101/internal/app/panel"
	"github.com/PabloGalante/fluid101/internal/app/resources"
	"github.com/PabloGalante/fluid101/internal/config"
	"github.com/PabloGalante/fluid101/internal/domain"
	"github.com/PabloGalante/fluid101/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	observability.Configure(os.Stdout, cfg.LogLevel)
	log := observability.WithFields("service", "fluid-api", "mode", cfg.Mode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newCompletionClient(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("completion client ready", "provider", cfg.LLMProvider)

	handler, err := buildHandler(cfg, client)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Fluid 101 API listening", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newCompletionClient(ctx context.Context, cfg *config.Config) (domain.CompletionClient, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			ProjectID: cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.ModelName,
		})
		if err != nil {
			return nil, errors.Wrap(err, "initializing gemini client")
		}
		return client, nil
	case config.ProviderOpenAI:
		client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			return nil, errors.Wrap(err, "initializing openai client")
		}
		return client, nil
	default:
		return llm.NewMockLLM(), nil
	}
}

// buildHandler wires stores, services and the HTTP adapter. All state lives
// in memory and is owned here.
func buildHandler(cfg *config.Config, client domain.CompletionClient) (http.Handler, error) {
	catalog, err := resources.Load()
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()
	sessionStore := memstore.NewSessionStore()
	noteStore := memstore.NewNoteStore()

	gateway := completion.NewGateway(client, cfg.CompletionTimeout)
	convSvc := conversation.NewService(sessionStore, gateway, cfg.HistoryLimit, metrics)
	analyzer := analysis.NewService(cfg.MaxImageBytes, metrics)
	panels := panel.NewRenderer(sessionStore, noteStore, catalog, analyzer, panel.Config{
		VoiceWidgetURL: cfg.VoiceWidgetURL,
		MaxImageBytes:  cfg.MaxImageBytes,
	})

	return httpadapter.NewServer(httpadapter.Deps{
		Conversations:  convSvc,
		Notes:          notes.NewService(noteStore),
		Analyzer:       analyzer,
		Panels:         panels,
		Metrics:        metrics,
		MaxImageBytes:  cfg.MaxImageBytes,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}), nil
}
