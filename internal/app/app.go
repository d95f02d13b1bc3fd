package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixbrock/ideaspark/internal/rotator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 10 * time.Second

// PlaceholderExamples feed the rotating hint under the idea input.
var PlaceholderExamples = []string{
	"open a cat café",
	"build a robot gardener",
	"create a virtual reality fitness app",
	"start a sustainable fashion brand",
	"launch a food delivery service",
	"develop an AI-powered learning platform",
}

type App struct {
	Service          *IdeaService
	Placeholders     *rotator.Rotator
	ComponentBuilder ComponentBuilder
	Config           Config
	StaticDir        string
}

func (a *App) pollEvery() time.Duration {
	return a.Config.PlaceholderInterval
}

// Handler assembles the JSON API, the HTML views and the operational
// endpoints behind the tracing middleware.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	m := a.Service.Metrics
	cb := a.ComponentBuilder

	handle := func(pattern string, h http.Handler) {
		labels := prometheus.Labels{"route": pattern}
		mux.Handle(pattern, promhttp.InstrumentHandlerDuration(
			m.HTTPRequestDuration.MustCurryWith(labels),
			promhttp.InstrumentHandlerCounter(m.HTTPRequestsTotal.MustCurryWith(labels), h),
		))
	}

	handle("POST /ideas", createIdea(a.Service))
	handle("GET /ideas", listIdeas(a.Service))
	handle("GET /ideas/{id}", getIdea(a.Service))
	handle("POST /ideas/{id}/follow-up", createFollowUp(a.Service))

	handle("GET /{$}", index(cb, a.Placeholders, a.pollEvery()))
	handle("GET /dashboard", dashboard(cb))
	handle("GET /ideas/{id}/view", ideaPage(cb, a.Service))
	handle("GET /components/placeholder", placeholder(cb, a.Placeholders, a.pollEvery()))
	handle("POST /components/ideas", submitIdea(cb, a.Service))
	handle("GET /components/ideas/{id}", ideaFragment(cb, a.Service))
	handle("POST /components/ideas/{id}/follow-up", askFollowUp(cb, a.Service))
	handle("GET /components/dashboard", ideaList(cb, a.Service))

	staticDir := a.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	mux.Handle("GET /static/",
		http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	mux.Handle("GET /metrics", promhttp.Handler())

	return otelhttp.NewHandler(mux, "ideaspark-http")
}

// Start serves until ctx is cancelled, then drains in-flight requests for up
// to shutdownTimeout. The placeholder rotator runs for the lifetime of the
// server.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.Config.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.Placeholders.Start(ctx)
	defer a.Placeholders.Stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info(fmt.Sprintf("App running on %s...", a.Config.Port))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}
