package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/psds-microservice/contact-service/internal/auth"
	"github.com/psds-microservice/contact-service/internal/config"
	"github.com/psds-microservice/contact-service/internal/database"
	"github.com/psds-microservice/contact-service/internal/handler"
	"github.com/psds-microservice/contact-service/internal/logging"
	"github.com/psds-microservice/contact-service/internal/registry"
	"github.com/psds-microservice/contact-service/internal/router"
	"github.com/psds-microservice/contact-service/internal/service"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// API wires config, store, resources and the HTTP server together.
type API struct {
	cfg     *config.Config
	log     zerolog.Logger
	httpSrv *http.Server
}

func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logging.New(cfg.LogLevel, cfg.AppEnv)

	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	messageSvc := service.NewMessageService(db)
	contactReg := registry.New()
	gate := auth.NewGate(cfg.JWTSecret)

	contactHandler := handler.NewContactMethodHandler(contactReg)
	messageHandler := handler.NewMessageHandler(messageSvc, log)

	h := router.New(log, gate, contactHandler, messageHandler)

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: cfg.CORSOrigin != "*",
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           corsWrapper.Handler(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, log: log, httpSrv: httpSrv}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	a.log.Info().Str("addr", a.httpSrv.Addr).Msg("HTTP server listening")
	a.log.Info().Str("swagger", base+"/swagger").Str("health", base+"/health").Msg("endpoints")

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
