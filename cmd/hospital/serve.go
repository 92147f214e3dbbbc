package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/email"
	appointmenthandler "github.com/jwalitptl/hospital-api/internal/handler/appointment"
	authhandler "github.com/jwalitptl/hospital-api/internal/handler/auth"
	clockhandler "github.com/jwalitptl/hospital-api/internal/handler/clock"
	departmenthandler "github.com/jwalitptl/hospital-api/internal/handler/department"
	doctorhandler "github.com/jwalitptl/hospital-api/internal/handler/doctor"
	healthhandler "github.com/jwalitptl/hospital-api/internal/handler/health"
	invoicehandler "github.com/jwalitptl/hospital-api/internal/handler/invoice"
	labresulthandler "github.com/jwalitptl/hospital-api/internal/handler/labresult"
	medicalrecordhandler "github.com/jwalitptl/hospital-api/internal/handler/medicalrecord"
	nursehandler "github.com/jwalitptl/hospital-api/internal/handler/nurse"
	patienthandler "github.com/jwalitptl/hospital-api/internal/handler/patient"
	prescriptionhandler "github.com/jwalitptl/hospital-api/internal/handler/prescription"
	rolehandler "github.com/jwalitptl/hospital-api/internal/handler/role"
	roomhandler "github.com/jwalitptl/hospital-api/internal/handler/room"
	userhandler "github.com/jwalitptl/hospital-api/internal/handler/user"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/repository/cache"
	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	"github.com/jwalitptl/hospital-api/internal/router"
	"github.com/jwalitptl/hospital-api/internal/service/appointment"
	"github.com/jwalitptl/hospital-api/internal/service/billing"
	"github.com/jwalitptl/hospital-api/internal/service/department"
	"github.com/jwalitptl/hospital-api/internal/service/doctor"
	"github.com/jwalitptl/hospital-api/internal/service/labresult"
	"github.com/jwalitptl/hospital-api/internal/service/medical"
	"github.com/jwalitptl/hospital-api/internal/service/notification"
	"github.com/jwalitptl/hospital-api/internal/service/nurse"
	"github.com/jwalitptl/hospital-api/internal/service/patient"
	"github.com/jwalitptl/hospital-api/internal/service/prescription"
	"github.com/jwalitptl/hospital-api/internal/service/role"
	"github.com/jwalitptl/hospital-api/internal/service/room"
	"github.com/jwalitptl/hospital-api/internal/service/user"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	"github.com/jwalitptl/hospital-api/pkg/clock"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/security"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := validator.Register(cfg.Phone.DefaultRegion); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	registry, m := newRegistry()

	clk, simulated, err := newClock(cfg.Clock)
	if err != nil {
		return err
	}

	dispatcher, closeDispatcher, err := newDispatcher(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer closeDispatcher()

	notifier := notification.NewService(dispatcher, clk, m, cfg.Notification.Timeout)
	defer notifier.Wait()

	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Expiry:   cfg.JWT.Expiry(),
	})

	handlers := buildHandlers(db, clk, notifier, jwtSvc, m, cfg.Cache)
	if simulated != nil {
		handlers.Clock = clockhandler.NewHandler(simulated)
	}

	r := router.NewRouter(middleware.NewAuthMiddleware(jwtSvc), handlers, registry, router.RouterConfig{
		Mode:             cfg.Server.Mode,
		RequestTimeout:   cfg.Server.RequestTimeout,
		MaxBodyBytes:     cfg.Server.MaxBodyBytes,
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RequestsPerSecond,
			Burst: cfg.RateLimit.Burst,
			TTL:   cfg.RateLimit.TTL,
		},
		CORSConfig:    corsConfig(cfg.CORS),
		Security:      middleware.DefaultSecurityConfig(),
		MetricsPrefix: metricsNamespace,
	}).Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Bool("simulated_clock", simulated != nil).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited")
	return nil
}

func buildHandlers(
	db *sqlx.DB,
	clk clock.Clock,
	notifier notification.Notifier,
	jwtSvc *auth.JWTService,
	m *metrics.Metrics,
	cacheCfg config.CacheConfig,
) router.Handlers {
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	roleRepo := cache.NewRoleRepository(postgres.NewRoleRepository(base), cacheCfg.TTL)
	patientRepo := postgres.NewPatientRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	nurseRepo := postgres.NewNurseRepository(base)
	departmentRepo := postgres.NewDepartmentRepository(base)
	roomRepo := postgres.NewRoomRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	invoiceRepo := postgres.NewInvoiceRepository(base)
	labResultRepo := postgres.NewLabResultRepository(base)
	recordRepo := postgres.NewMedicalRecordRepository(base)
	prescriptionRepo := postgres.NewPrescriptionRepository(base)

	userSvc := user.NewService(userRepo, security.NewBcryptHasher(bcrypt.DefaultCost), jwtSvc, clk, user.WithRoleCache(roleRepo))

	return router.Handlers{
		Health:        healthhandler.NewHandler(db),
		Auth:          authhandler.NewHandler(userSvc),
		User:          userhandler.NewHandler(userSvc),
		Role:          rolehandler.NewHandler(role.NewService(roleRepo)),
		Patient:       patienthandler.NewHandler(patient.NewService(patientRepo, doctorRepo)),
		Doctor:        doctorhandler.NewHandler(doctor.NewService(doctorRepo, departmentRepo, appointmentRepo)),
		Nurse:         nursehandler.NewHandler(nurse.NewService(nurseRepo, departmentRepo)),
		Department:    departmenthandler.NewHandler(department.NewService(departmentRepo, roomRepo)),
		Room:          roomhandler.NewHandler(room.NewService(roomRepo, departmentRepo)),
		Appointment:   appointmenthandler.NewHandler(appointment.NewService(appointmentRepo, patientRepo, doctorRepo, clk, notifier, m)),
		Invoice:       invoicehandler.NewHandler(billing.NewService(invoiceRepo, patientRepo, clk, notifier, m)),
		LabResult:     labresulthandler.NewHandler(labresult.NewService(labResultRepo, patientRepo, doctorRepo, nurseRepo, notifier)),
		MedicalRecord: medicalrecordhandler.NewHandler(medical.NewService(recordRepo, patientRepo, clk)),
		Prescription:  prescriptionhandler.NewHandler(prescription.NewService(prescriptionRepo, patientRepo, doctorRepo, clk)),
	}
}

// newClock returns the service clock and, when simulation is on, the same clock as *clock.Simulated.
func newClock(cfg config.ClockConfig) (clock.Clock, *clock.Simulated, error) {
	if !cfg.Simulated {
		return clock.NewReal(), nil, nil
	}
	start, ok, err := cfg.StartTime()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		start = clock.NewReal().Now()
	}
	sim := clock.NewSimulated(start)
	log.Warn().Time("start", start).Msg("Using simulated clock")
	return sim, sim, nil
}

func newDispatcher(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (notification.Dispatcher, func(), error) {
	if cfg.Notification.Mode != config.NotificationModeBroker {
		return notification.NewEmailDispatcher(email.NewSender(emailConfig(cfg.SMTP))), func() {}, nil
	}

	broker, err := newBroker(ctx, cfg.Redis, m)
	if err != nil {
		return nil, nil, err
	}
	var b messaging.Broker = broker
	return notification.NewBrokerDispatcher(b, cfg.Notification.Channel), func() {
		if err := b.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close message broker")
		}
	}, nil
}

func corsConfig(cfg config.CORSConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	if len(cfg.AllowedMethods) > 0 {
		c.AllowMethods = cfg.AllowedMethods
	}
	if len(cfg.AllowedHeaders) > 0 {
		c.AllowHeaders = cfg.AllowedHeaders
	}
	return c
}
