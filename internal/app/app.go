package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"supportrag/features/ask"
	"supportrag/features/mcp"
	"supportrag/features/stats"
	"supportrag/features/vapi"
	"supportrag/internal/config"
	"supportrag/internal/middleware"
	"supportrag/internal/vector"
)

// Retriever is the answer pipeline as seen by the HTTP surface.
type Retriever interface {
	Search(ctx context.Context, question string) ([]vector.Match, error)
	Answer(ctx context.Context, question string) (string, error)
}

type App struct {
	Handler http.Handler
	port    int
}

func New(cfg *config.Config, retriever Retriever, index vector.Index) *App {
	askHandler := ask.NewHandler(retriever)
	vapiHandler := vapi.NewHandler(retriever, cfg.VapiFunctionName)
	statsHandler := stats.NewHandler(index, IndexSpec(cfg).Name, config.IndexDimension)
	mcpHandler := mcp.NewHandler(retriever, cfg.SupportBrand)

	wrap := func(h http.Handler) http.Handler {
		return middleware.CorrelationID(middleware.CORS(h))
	}

	// Routes
	mux := http.NewServeMux()

	mux.Handle("POST /ask", wrap(http.HandlerFunc(askHandler.Ask)))
	mux.Handle("OPTIONS /ask", wrap(http.HandlerFunc(askHandler.Ask)))
	mux.Handle("POST /vapi/webhook", wrap(http.HandlerFunc(vapiHandler.Webhook)))
	mux.Handle("GET /stats", wrap(http.HandlerFunc(statsHandler.GetStats)))
	mux.Handle("/mcp", middleware.CorrelationID(mcpHandler.HTTPHandler()))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &App{Handler: mux, port: cfg.ServerPort}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.port),
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
