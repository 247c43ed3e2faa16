package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"aio-chat/internal/app"
	"aio-chat/internal/httputil"
	"aio-chat/internal/realtime"
	"aio-chat/internal/ui"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			deps.Log.Error("shutdown finished with errors", "err", err)
		}
	}()

	hub := realtime.NewHub(deps.Log, deps.Events)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return hub.Run(gctx)
	})

	if deps.Config.SessionTTL > 0 {
		sw := newSweeper(deps, deps.Config.SessionTTL, deps.Config.SessionSweepInterval)
		g.Go(func() error {
			return sw.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		deps.Log.Error("server stopped", "err", err)
		return
	}
	deps.Log.Info("server stopped")
}

func newRouter(deps app.Deps, hub http.Handler) chi.Router {
	r := httputil.NewRouter(deps.Log)

	r.Get("/healthz", httputil.HealthHandler(deps))

	r.HandleFunc("/api/chat-sessions", sessionsHandler(deps))
	r.HandleFunc("/api/chat", httputil.OnlyMethod(http.MethodPost, chatHandler(deps)))
	r.HandleFunc("/api/upload", httputil.OnlyMethod(http.MethodPost, uploadHandler(deps)))
	r.HandleFunc("/api/translate", httputil.OnlyMethod(http.MethodPost, translateHandler(deps)))
	r.HandleFunc("/api/web-search", httputil.OnlyMethod(http.MethodPost, searchHandler(deps)))
	r.Get("/api/models", modelsHandler())
	r.Get("/api/settings/defaults", defaultsHandler(deps))
	r.Handle("/api/ws", hub)

	r.Handle("/*", ui.Handler())
	return r
}
