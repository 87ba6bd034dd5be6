package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/access"
	"github.com/clinicore/clinic-api/internal/config"
	"github.com/clinicore/clinic-api/internal/handler"
	appointmentHandler "github.com/clinicore/clinic-api/internal/handler/appointment"
	clinicHandler "github.com/clinicore/clinic-api/internal/handler/clinic"
	membershipHandler "github.com/clinicore/clinic-api/internal/handler/membership"
	patientHandler "github.com/clinicore/clinic-api/internal/handler/patient"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/repository/postgres"
	"github.com/clinicore/clinic-api/internal/router"
	appointmentService "github.com/clinicore/clinic-api/internal/service/appointment"
	clinicService "github.com/clinicore/clinic-api/internal/service/clinic"
	membershipService "github.com/clinicore/clinic-api/internal/service/membership"
	patientService "github.com/clinicore/clinic-api/internal/service/patient"
	"github.com/clinicore/clinic-api/pkg/auth"
	"github.com/clinicore/clinic-api/pkg/logger"
	"github.com/clinicore/clinic-api/pkg/messaging"
	redisbroker "github.com/clinicore/clinic-api/pkg/messaging/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Setup(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT secret is required")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var events messaging.Publisher
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		brokerLog := log.Logger
		broker, err = redisbroker.NewBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &brokerLog)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer broker.Close()
		events = broker
	} else {
		log.Warn().Msg("redis URL not configured, entity-change events disabled")
	}

	base := postgres.NewBaseRepository(db)
	clinicRepo := postgres.NewClinicRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	membershipRepo := postgres.NewMembershipRepository(base)

	resolver := access.NewResolver(membershipRepo)

	clinicSvc := clinicService.NewService(clinicRepo, resolver, events)
	patientSvc := patientService.NewService(patientRepo, resolver, events)
	appointmentSvc := appointmentService.NewService(appointmentRepo, resolver, events)
	membershipSvc := membershipService.NewService(membershipRepo, resolver, events)

	tokens := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer)
	authMW := middleware.NewAuthMiddleware(tokens)

	r := router.New(
		authMW,
		clinicHandler.NewHandler(clinicSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		membershipHandler.NewHandler(membershipSvc),
		handler.NewHandler(db),
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			CORS:           middleware.DefaultCORSConfig(),
			MetricsPrefix:  "clinicapi",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
