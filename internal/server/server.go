// Package server assembles the HTTP surface: Connect procedures, health and
// metrics, behind the access log and CORS middleware.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
)

const healthTimeout = 2 * time.Second

// Deps are the collaborators the server routes to.
type Deps struct {
	Store         storage.Store
	Ledger        *ledger.Ledger
	Metrics       *metrics.Metrics
	JWT           *auth.JWTManager
	Authenticator auth.Authenticator
}

type APIServer struct {
	config *config.HTTP
	logger *slog.Logger
	deps   Deps
	server *http.Server
}

func New(cfg *config.HTTP, logger *slog.Logger, deps Deps) *APIServer {
	s := &APIServer{
		config: cfg,
		logger: logger,
		deps:   deps,
	}
	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *APIServer) Start() error {
	s.logger.Info("Starting server", slog.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *APIServer) MustStart() {
	err := s.Start()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic("Failed to start server: " + err.Error())
	}
}

func (s *APIServer) Stop(ctx context.Context) error {
	defer s.logger.Info("Server successfully stopped")
	return s.server.Shutdown(ctx)
}

// Handler returns the routed handler without the h2c wrapper.
func (s *APIServer) Handler() http.Handler {
	router := mux.NewRouter()

	logging := middleware.LoggingInterceptor(s.logger)
	opts := service.Options{
		Public: []connect.HandlerOption{
			connect.WithInterceptors(middleware.OptionalAuth(s.deps.JWT), logging),
		},
		Protected: []connect.HandlerOption{
			connect.WithInterceptors(middleware.RequireAuth(s.deps.JWT), logging),
		},
	}

	l := s.deps.Ledger
	services := []interface{ Handlers(service.Options) []service.Route }{
		service.NewAuthService(s.deps.Authenticator, s.deps.JWT, l, s.logger),
		service.NewUserService(l),
		service.NewCategoryService(l),
		service.NewGroupService(l, s.logger),
		service.NewExpenseService(l, s.logger),
		service.NewSettlementService(l),
		service.NewFeedbackService(l),
	}
	for _, svc := range services {
		for _, r := range svc.Handlers(opts) {
			router.Handle(r.Path, r.Handler).Methods(http.MethodPost, http.MethodGet)
		}
	}

	router.HandleFunc("/healthz", s.healthHandler()).Methods(http.MethodGet)
	router.Handle("/metrics", s.deps.Metrics.Handler()).Methods(http.MethodGet)

	return middleware.RequestLogger(s.logger)(middleware.CORS(router))
}

func (s *APIServer) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := s.deps.Store.Ping(ctx); err != nil {
			s.logger.Warn("Health check failed", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
