// Package health serves the process liveness route.
package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const aliveBody = "Bot is alive!"

type Server struct {
	srv *http.Server
}

func NewServer(port string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("0.0.0.0", port),
			Handler:           Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(aliveBody))
	}).Methods(http.MethodGet, http.MethodHead)
	return r
}

func (s *Server) Name() string { return "health" }

func (s *Server) Init() error { return nil }

func (s *Server) Run(ctx context.Context) error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}
