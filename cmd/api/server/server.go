package server

import (
	"net/http"
	"time"

	ginhandler "github-user-service/internal/adapter/gin/handler"
	ginrouter "github-user-service/internal/adapter/gin/router"
	"github-user-service/internal/config"

	"go.uber.org/zap"
)

// Server holds the HTTP server serving the REST API.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance with the router wired up.
func New(cfg *config.Config, l *zap.Logger, userHandler *ginhandler.UserHandler) *Server {
	router := ginrouter.SetupRouter(userHandler, l)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              ":" + cfg.App.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.Logger.Info("REST API running", zap.String("address", s.HTTP.Addr))
	return s.HTTP.ListenAndServe()
}
