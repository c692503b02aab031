package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/config"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/db"
	"github.com/LexiconIndonesia/datasource-catalog-service/handler"
	"github.com/LexiconIndonesia/datasource-catalog-service/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const requestTimeout = 2 * time.Minute

type AppHttpServer struct {
	router  *chi.Mux
	cfg     config.Config
	server  *http.Server
	db      *db.DB
	catalog handler.Catalog
	queue   handler.RefreshQueue
}

func NewAppHttpServer(cfg config.Config) (*AppHttpServer, error) {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middlewares.HeaderApiKey},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Creating or refreshing a large CSV runs inside the request.
	r.Use(middleware.Timeout(requestTimeout))

	server := &AppHttpServer{
		router: r,
		cfg:    cfg,
	}
	return server, nil
}

// SetDB sets the database dependency
func (s *AppHttpServer) SetDB(db *db.DB) {
	s.db = db
}

// SetCatalog sets the catalog used by the data source and setup routes.
func (s *AppHttpServer) SetCatalog(c handler.Catalog) {
	s.catalog = c
}

// SetRefreshQueue enables asynchronous refresh.
func (s *AppHttpServer) SetRefreshQueue(q handler.RefreshQueue) {
	s.queue = q
}

func (s *AppHttpServer) setupRoute() {
	r := s.router

	if s.queue == nil {
		log.Warn().Msg("Refresh queue not set, async refresh disabled")
	}

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Public health endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"datasource-catalog-service"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middlewares.ApiKey(s.cfg.Security.BackendApiKey))

		dataSourceHandler := handler.NewDataSourceHandler(s.catalog, s.queue)
		healthHandler := handler.NewHealthHandler(s.db)
		setupHandler := handler.NewSetupHandler(s.catalog, s.cfg.Seed.Sources, db.Schema)

		r.Mount("/datasources", dataSourceHandler.Router())
		r.Mount("/health", healthHandler.Router())
		r.Post("/initialize", setupHandler.HandleInitialize)
		r.Get("/setup", setupHandler.HandleSetup)
	})
}

func (s *AppHttpServer) start() error {
	r := s.router
	cfg := s.cfg
	log.Info().Msg("Starting up server...")

	s.server = &http.Server{
		Addr:         cfg.Listen.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// stop gracefully shuts down the server
func (s *AppHttpServer) stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
