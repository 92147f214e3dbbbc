package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/internal/worker"
)

func workerCmd() *cobra.Command {
	var (
		metricsAddr   string
		retryAttempts int
		retryDelay    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Deliver queued notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			registry, m := newRegistry()

			broker, err := newBroker(ctx, cfg.Redis, m)
			if err != nil {
				return err
			}
			defer broker.Close()

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error().Err(err).Msg("Metrics server failed")
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			w := worker.NewNotificationWorker(broker, email.NewSender(emailConfig(cfg.SMTP)), worker.NotificationWorkerConfig{
				Channel:       cfg.Notification.Channel,
				RetryAttempts: retryAttempts,
				RetryDelay:    retryDelay,
			}, m)
			return w.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9091", "address for the worker metrics endpoint, empty to disable")
	cmd.Flags().IntVar(&retryAttempts, "retry-attempts", 3, "delivery attempts per notification")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", time.Second, "delay between delivery attempts")
	return cmd
}
