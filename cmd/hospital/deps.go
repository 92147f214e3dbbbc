package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/pkg/circuitbreaker"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/messaging/redis"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const metricsNamespace = "hospital"

// loadConfig reads the configuration and installs the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File: logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
	})
	return cfg, nil
}

// newRegistry returns a process registry with the Go runtime collectors.
func newRegistry() (*prometheus.Registry, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, metrics.New(reg, metricsNamespace)
}

func newBroker(ctx context.Context, cfg config.RedisConfig, m *metrics.Metrics) (*redis.RedisBroker, error) {
	settings := circuitbreaker.DefaultSettings("redis-broker")
	settings.OnStateChange = func(name string, state gobreaker.State) {
		m.BreakerState.WithLabelValues(name).Set(circuitbreaker.StateValue(state))
	}

	brokerLog := log.With().Str("component", "broker").Logger()
	broker, err := redis.NewRedisBroker(ctx, redis.Config{
		URL:          cfg.URL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		PollTimeout:  cfg.PollTimeout,
		Breaker:      settings,
	}, &brokerLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to message broker: %w", err)
	}
	return broker, nil
}

func emailConfig(cfg config.SMTPConfig) email.Config {
	return email.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		UseTLS:   cfg.UseTLS,
		Timeout:  cfg.Timeout,
	}
}
