package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

// ServerOptions configura el http.Server.
type ServerOptions struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server envuelve http.Server con arranque y apagado ordenado.
type Server struct {
	srv *http.Server
}

// NewServer crea el server con los timeouts dados.
func NewServer(opts ServerOptions, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         opts.Addr,
			Handler:      handler,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
	}
}

// Start bloquea sirviendo requests hasta Shutdown o error.
func (s *Server) Start() error {
	logger.L().Info("servidor escuchando", logger.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// Shutdown apaga el server drenando las conexiones en curso.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
