package app

import (
	"context"
	"fmt"

	"workzen/internal/bootstrap"
	"workzen/internal/employee"
	"workzen/internal/jobs"
	"workzen/internal/messaging/kafka"
	"workzen/internal/messaging/kafka/producer"
	"workzen/internal/payrun"
	"workzen/internal/shared/config"
	"workzen/internal/shared/connection"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunWorker relays the outbox to kafka and runs the scheduled jobs until a shutdown signal.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	infra, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(infra.SQLDB)
	payrunService := payrun.NewService(infra.SQLDB, payrun.NewRepository(infra.GormDB), logger)
	opener := jobs.NewPayrunOpener(employee.NewRepository(infra.GormDB), payrunService, logger)

	scheduler := cron.New()
	if _, err := opener.Register(scheduler, cfg.PayrunCron); err != nil {
		return fmt.Errorf("register payrun opener: %w", err)
	}
	scheduler.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the cron run only fires on the 1st; opening at startup covers a worker that was down then
	if _, err := opener.Run(ctx); err != nil {
		logger.Warn("initial payrun open failed", zap.Error(err))
	}

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.OutboxPollInterval,
	)

	sig := bootstrap.WaitForSignal()
	logger.Info("worker shutting down", zap.String("signal", sig.String()))
	cancel()
	<-scheduler.Stop().Done()

	return nil
}
