// Package server exposes a Session over HTTP with gin: grid editing, maze
// import and export, run control, a server-sent event stream per run and
// the prometheus metrics endpoint.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controller mounts a group of routes.
type Controller interface {
	Register(route *gin.RouterGroup)
}

// Router manages the HTTP server and its controllers.
type Router struct {
	addr        string
	baseURL     string
	controllers []Controller
	gatherer    prometheus.Gatherer
	log         *slog.Logger
}

// Config holds the settings for NewRouter.
type Config struct {
	Addr        string // Address to listen on
	BaseURL     string // Prefix for the versioned API, e.g. "/api"
	Controllers []Controller
	Gatherer    prometheus.Gatherer // served on /metrics when set
	Logger      *slog.Logger
}

// NewRouter creates a Router from cfg.
func NewRouter(cfg Config) *Router {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		addr:        cfg.Addr,
		baseURL:     cfg.BaseURL,
		controllers: cfg.Controllers,
		gatherer:    cfg.Gatherer,
		log:         log.With(slog.String("component", "http")),
	}
}

// Handler builds the gin engine with every route registered.
func (r *Router) Handler() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), r.accessLog())

	api := router.Group(r.baseURL)
	{
		v1 := api.Group("/v1")
		for _, c := range r.controllers {
			c.Register(v1)
		}
	}
	if r.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (r *Router) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              r.addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		r.log.Info("listening", slog.String("addr", r.addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// accessLog writes one structured record per request.
func (r *Router) accessLog() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		began := time.Now()
		ctx.Next()
		attrs := []any{
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.FullPath()),
			slog.Int("status", ctx.Writer.Status()),
			slog.Duration("latency", time.Since(began)),
		}
		if len(ctx.Errors) > 0 {
			r.log.Error("request failed", append(attrs, slog.String("error", ctx.Errors.String()))...)
			return
		}
		r.log.Debug("request", attrs...)
	}
}
