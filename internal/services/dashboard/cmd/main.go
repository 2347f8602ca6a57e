package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/services/dashboard"
	"github.com/LeonardoBeccarini/sdcc_dashboard/pkg/dedup"
	"github.com/LeonardoBeccarini/sdcc_dashboard/pkg/rabbitmq"
)

func setupLogger(cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// listen binds addr up front so that a busy port fails startup instead of a
// background goroutine.
func listen(name, addr string) net.Listener {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal().Err(err).Str("listener", name).Str("addr", addr).Msg("failed to listen")
	}
	return lis
}

func serveHTTP(name string, srv *http.Server, lis net.Listener, errc chan<- error) {
	log.Info().Str("listener", name).Str("addr", lis.Addr().String()).Msg("HTTP listening")
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Str("listener", name).Msg("HTTP server error")
		errc <- err
	}
}

func main() {
	cfg := loadConfig()
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("starting dashboard service")

	metrics := dashboard.NewMetrics()
	store := dashboard.NewStore()

	// --- MQTT (optional) ---
	// interface-typed so that they stay nil when MQTT is disabled
	var (
		notifier dashboard.PumpNotifier
		conn     dashboard.ConnChecker
		breaker  dashboard.BreakerReporter
	)
	mqCtx, mqCancel := context.WithCancel(context.Background())
	defer mqCancel()

	var consumer rabbitmq.IConsumer
	if cfg.MQTTEnabled() {
		mqCfg := &rabbitmq.RabbitMQConfig{
			Host:     cfg.RabbitHost,
			Port:     cfg.RabbitPort,
			User:     cfg.RabbitUser,
			Password: cfg.RabbitPassword,
			ClientID: cfg.ClientID,

			MaxRetries: cfg.ConnectRetries,
			MaxElapsed: cfg.ConnectMaxWait,
		}
		client, err := rabbitmq.NewRabbitMQConn(mqCtx, mqCfg)
		if err != nil {
			log.Fatal().Err(err).Str("broker", mqCfg.BrokerURL()).Msg("MQTT connect failed")
		}
		publisher := rabbitmq.NewPublisher(client, cfg.PumpStateTopic)
		publisher.SetTimeout(cfg.PublishTimeout)

		n := dashboard.NewMQTTNotifier(publisher, dashboard.BreakerConfig{
			Name:     "pump-events",
			Fails:    cfg.CBFails,
			OpenFor:  cfg.CBOpen,
			Interval: cfg.CBInterval,
		})
		notifier, conn, breaker = n, client, n

		if cfg.PumpCommandTopic != "" {
			consumer = rabbitmq.NewConsumer(client, cfg.PumpCommandTopic, nil)
		}
		log.Info().Str("state_topic", cfg.PumpStateTopic).Str("command_topic", cfg.PumpCommandTopic).Msg("MQTT enabled")
	} else {
		log.Info().Msg("RABBITMQ_HOST not set, MQTT disabled")
	}

	svc := dashboard.NewService(store, metrics, notifier)

	if consumer != nil {
		handler := dashboard.NewCommandHandler(svc, dedup.New(cfg.DedupTTL, cfg.DedupMax))
		consumer.SetHandler(handler.Handle)
		go func() {
			if err := consumer.ConsumeMessage(mqCtx); err != nil {
				log.Error().Err(err).Msg("pump command consumer stopped")
			}
		}()
	}

	errc := make(chan error, 3)

	// --- public HTTP ---
	publicSrv := &http.Server{
		Handler:           dashboard.NewHTTPMux(svc, metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go serveHTTP("public", publicSrv, listen("public", cfg.Addr), errc)

	// --- admin HTTP ---
	var adminSrv *http.Server
	if cfg.AdminAddr != "" {
		adminSrv = &http.Server{
			Handler:           dashboard.NewAdminMux(metrics, conn, breaker),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go serveHTTP("admin", adminSrv, listen("admin", cfg.AdminAddr), errc)
	}

	// --- gRPC health ---
	var grpcHealth *dashboard.GRPCHealth
	if cfg.GRPCHealthAddr != "" {
		grpcHealth = dashboard.NewGRPCHealthServer()
		lis := listen("grpc-health", cfg.GRPCHealthAddr)
		go func() {
			if err := grpcHealth.Serve(lis); err != nil {
				log.Error().Err(err).Msg("gRPC health server error")
				errc <- err
			}
		}()
	}

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down...")
	case err := <-errc:
		log.Error().Err(err).Msg("server failed, shutting down")
		exitCode = 1
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if grpcHealth != nil {
		grpcHealth.Stop()
	}
	if err := publicSrv.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("public HTTP shutdown")
	}
	if adminSrv != nil {
		if err := adminSrv.Shutdown(shCtx); err != nil {
			log.Error().Err(err).Msg("admin HTTP shutdown")
		}
	}

	// stops the consumer and disconnects the broker
	mqCancel()
	time.Sleep(300 * time.Millisecond)

	log.Info().Msg("dashboard stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
