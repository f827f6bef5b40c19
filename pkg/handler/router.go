package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/LegumeFederation/intermine-legfed/logger"
	"github.com/LegumeFederation/intermine-legfed/pkg/middle"
)

func NewRouter(rc *RunContext) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// API routes
	mux.HandleFunc("GET /api/v1/health", rc.HealthCheck)
	mux.HandleFunc("GET /api/v1/run", rc.RunStatus)
	if rc.Metrics != nil {
		mux.Handle("GET /metrics", rc.Metrics)
	}
	return mux
}

// Handler wraps the router with request ids and request logging.
func Handler(rc *RunContext) http.Handler {
	l := logger.L()
	return middle.RequestIDMiddleware(l)(middle.LoggingMiddleware(l)(NewRouter(rc)))
}

// Server is the optional status server that runs alongside a load.
type Server struct {
	srv  *http.Server
	done chan error
}

// Start serves rc on addr in the background.
func Start(addr string, rc *RunContext) *Server {
	s := &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           Handler(rc),
			ReadHeaderTimeout: 5 * time.Second,
		},
		done: make(chan error, 1),
	}
	go func() {
		logger.Info("Status server starting", zap.String("addr", addr))
		err := s.srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			logger.Error("Error starting server:", zap.Error(err))
		}
		s.done <- err
	}()
	return s
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-s.done
}
