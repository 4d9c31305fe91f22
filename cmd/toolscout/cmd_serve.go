package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolscout/api"
	"toolscout/config"
	"toolscout/pipeline"
	"toolscout/shared/kafka"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ops API (health, run trigger, status, cost summary)",
	Long: `Serves GET /api/health, POST /api/curation/run, GET /api/curation/status and
GET /api/curation/summary. When KAFKA_TRIGGER_TOPIC is set, run requests are also
consumed from that topic.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "Listen address (default $TOOLSCOUT_ADDR or :8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	if consumer := startTriggerConsumer(ctx, cfg, p, log); consumer != nil {
		defer func() { _ = consumer.Close() }()
	}

	addr := serveFlags.addr
	if addr == "" {
		addr = cfg.ServeAddr
	}
	srv := &http.Server{Addr: addr, Handler: api.NewRouter(p, log), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting API server on %s", addr)
		log.Info("API endpoints available:")
		log.Info("  GET  /api/health")
		log.Info("  POST /api/curation/run?bypass=false&async=false")
		log.Info("  GET  /api/curation/status")
		log.Info("  GET  /api/curation/summary")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startTriggerConsumer subscribes to run requests when a trigger topic is configured
func startTriggerConsumer(ctx context.Context, cfg config.Config, p *pipeline.Pipeline, log *zap.SugaredLogger) *kafka.Consumer {
	if cfg.KafkaTriggerTopic == "" || len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	handler := &kafka.TypedMessageHandler[kafka.RunRequest]{
		Process: func(ctx context.Context, req *kafka.RunRequest) error {
			out, err := p.RunOnce(ctx, req.Bypass)
			if err != nil {
				log.Warnf("⚠️  Triggered run did not complete: %v", err)
				return nil
			}
			log.Infof("Triggered run %s produced %d discoveries", out.Summary.RunID, len(out.Discoveries))
			return nil
		},
		AlwaysMark: true,
	}
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTriggerTopic,
		GroupID: cfg.KafkaGroupID,
		Handler: handler,
		Log:     log,
	})
	if err != nil {
		log.Warnf("⚠️  Kafka trigger disabled: %v", err)
		return nil
	}
	if err := consumer.Start(ctx); err != nil {
		log.Warnf("⚠️  Kafka trigger disabled: %v", err)
		_ = consumer.Close()
		return nil
	}
	return consumer
}
