package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/wirelesscalc/internal/api"
	"github.com/RMahshie/wirelesscalc/internal/api/handlers"
	"github.com/RMahshie/wirelesscalc/internal/client"
	"github.com/RMahshie/wirelesscalc/internal/config"
	"github.com/RMahshie/wirelesscalc/internal/metrics"
	"github.com/RMahshie/wirelesscalc/internal/scenario"
	"github.com/RMahshie/wirelesscalc/pkg/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	config.SetupLogging(cfg.Log.Level)

	calc, err := client.NewClient(client.Config{BaseURL: cfg.API.BaseURL})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create calculation client")
	}

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	var defaultScenario models.Scenario
	if cfg.Display.DefaultScenario != "" {
		defaultScenario, err = scenario.Parse(cfg.Display.DefaultScenario)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid DEFAULT_SCENARIO")
		}
	}

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Wireless Calculator Front End", handlers.Version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	calcHandler := handlers.NewCalculationHandler(calc, collector, cfg.Display.Language)
	pageHandler := handlers.NewPageHandler(calc, collector, cfg.Display.Language, defaultScenario)
	api.RegisterRoutes(router, humaAPI, calcHandler, pageHandler, collector)

	// Serve OpenAPI spec at /api/openapi.json
	router.Get("/api/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		spec, err := humaAPI.OpenAPI().MarshalJSON()
		if err != nil {
			http.Error(w, "Failed to generate OpenAPI spec", http.StatusInternalServerError)
			return
		}
		w.Write(spec)
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("api", cfg.API.BaseURL).Msg("Starting wireless calculator front end")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Str("request_id", middleware.GetReqID(r.Context())).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
