// Package server exposes BRDF normalization over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/s2brdf/pkg/brdf"
	"github.com/chrissnell/s2brdf/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// Controller represents the HTTP service
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	Server     http.Server
	normalizer *brdf.Normalizer
	gain       float64
	logger     *zap.SugaredLogger
	handlers   *Handlers
	listener   net.Listener
	serveErr   error
}

// NewController creates the HTTP service for the given configuration.
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, logger *zap.SugaredLogger) *Controller {
	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		normalizer: cfg.Normalizer(),
		gain:       cfg.TrueColorGain,
		logger:     logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = cfg.Server.Addr()
	ctrl.Server.Handler = ctrl.setupRouter()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl
}

// Handler returns the routed HTTP handler.
func (c *Controller) Handler() http.Handler {
	return c.Server.Handler
}

// StartController binds the listen address and starts serving. It returns
// the bind error, if any. The server shuts down when the controller context
// is cancelled.
func (c *Controller) StartController() error {
	ln, err := net.Listen("tcp", c.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", c.Server.Addr, err)
	}
	c.listener = ln
	c.logger.Infow("starting HTTP server", "addr", ln.Addr().String())
	c.wg.Add(1)

	done := make(chan struct{})
	go func() {
		defer c.wg.Done()
		defer close(done)
		if err := c.Server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			c.logger.Errorf("HTTP server error: %v", err)
			c.serveErr = err
		}
	}()

	go func() {
		select {
		case <-done:
			return
		case <-c.ctx.Done():
		}
		c.logger.Info("shutting down the HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Warnf("HTTP server shutdown: %v", err)
		}
	}()

	return nil
}

// Addr returns the bound listen address, or nil before StartController.
func (c *Controller) Addr() net.Addr {
	if c.listener == nil {
		return nil
	}
	return c.listener.Addr()
}

// Err returns the error that stopped the server. It is only meaningful
// after the wait group has been released.
func (c *Controller) Err() error {
	return c.serveErr
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(c.requestIDMiddleware, c.accessLogMiddleware)

	router.HandleFunc("/healthz", c.handlers.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/bands", c.handlers.GetBands).Methods(http.MethodGet)
	api.HandleFunc("/kernels", c.handlers.GetKernels).Methods(http.MethodGet)
	api.HandleFunc("/nbar", c.handlers.GetNBAR).Methods(http.MethodGet)
	api.HandleFunc("/nbar", c.handlers.PostNBAR).Methods(http.MethodPost)
	api.HandleFunc("/truecolor", c.handlers.GetTrueColor).Methods(http.MethodGet)

	return router
}

// requestIDMiddleware propagates or assigns a request ID
func (c *Controller) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

func (c *Controller) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		id, _ := r.Context().Value(requestIDKey).(string)
		c.logger.Debugw("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"size", rec.size,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"request_id", id,
		)
	})
}
