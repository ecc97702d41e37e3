package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/medilink/medilink/domain/entity"
	"github.com/medilink/medilink/infrastructure/http/handler"
	"github.com/medilink/medilink/infrastructure/http/middleware"
	"github.com/medilink/medilink/infrastructure/http/sse"
)

// Server wires the auth and notification surface onto a gorilla/mux router.
type Server struct {
	server *http.Server
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func NewServer(
	cfg ServerConfig,
	authHandler *handler.AuthHandler,
	notificationHandler *handler.NotificationHandler,
	sseHandler *sse.Handler,
	authMiddleware *middleware.AuthMiddleware,
) *Server {
	router := mux.NewRouter()

	router.Use(middleware.Recovery)
	router.Use(middleware.CORS)

	// Session endpoints. Refresh and revoke ride GET per the wire contract.
	router.HandleFunc("/auth", authHandler.Login).Methods(http.MethodPost)
	router.HandleFunc("/auth", authHandler.Refresh).Methods(http.MethodGet)
	router.HandleFunc("/auth/{id:[0-9]+}", authHandler.Revoke).Methods(http.MethodGet)

	// Push channel.
	router.HandleFunc("/notifications/stream",
		authMiddleware.RequireRoles(sseHandler.Stream)).Methods(http.MethodGet)
	router.HandleFunc("/notifications/subscribe",
		authMiddleware.RequireRoles(sseHandler.Subscribe)).Methods(http.MethodPost)

	// Dispatch surface for business collaborators.
	router.HandleFunc("/notifications/dispatch",
		authMiddleware.RequireRoles(notificationHandler.Dispatch,
			entity.RoleDoctor, entity.RolePharmacist, entity.RoleAdmin)).Methods(http.MethodPost)
	router.HandleFunc("/notifications/broadcast",
		authMiddleware.RequireRoles(notificationHandler.Broadcast,
			entity.RoleAdmin)).Methods(http.MethodPost)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	return &Server{
		server: &http.Server{
			Addr:        cfg.Addr,
			Handler:     router,
			ReadTimeout: cfg.ReadTimeout,
			// WriteTimeout stays zero so SSE streams are not cut off.
			IdleTimeout: cfg.IdleTimeout,
		},
	}
}

func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
