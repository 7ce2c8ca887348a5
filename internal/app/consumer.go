package app

import (
	"context"
	"fmt"

	"workzen/internal/attendance"
	"workzen/internal/bootstrap"
	"workzen/internal/employee"
	"workzen/internal/events"
	"workzen/internal/leave"
	"workzen/internal/messaging/kafka"
	"workzen/internal/messaging/kafka/consumer"
	"workzen/internal/payroll"
	"workzen/internal/payrun"
	"workzen/internal/profile"
	"workzen/internal/shared/config"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const consumerGroupPrefix = "workzen-"

func newReader(broker, topic, group string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        consumerGroupPrefix + group,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}

// RunConsumer runs the event consumers until a shutdown signal.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	infra, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	db, gormDB := infra.SQLDB, infra.GormDB
	profileRepo := profile.NewRepository(gormDB)
	profileService := profile.NewService(db, profileRepo, logger)
	payrollService := payroll.NewService(payroll.ServiceDeps{
		DB:         db,
		Repo:       payroll.NewRepository(gormDB),
		Payruns:    payrun.NewRepository(gormDB),
		Outbox:     kafka.NewOutboxRepository(db),
		Employees:  payroll.NewEmployeeReader(employee.NewRepository(gormDB)),
		Attendance: payroll.NewAttendanceReader(attendance.NewRepository(gormDB)),
		Leaves:     payroll.NewLeaveReader(leave.NewRepository(gormDB)),
		Profiles:   payroll.NewProfileReader(profileRepo),
		PayslipDir: cfg.PayslipDir,
	}, logger)

	lifecycleReader := newReader(cfg.KafkaBroker, events.EmployeeLifecycleTopic, "employee-profile")
	defer lifecycleReader.Close()
	payrollReader := newReader(cfg.KafkaBroker, events.PayrollMarkedDoneTopic, "payslip-archive")
	defer payrollReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEmployeeLifecycle(ctx, lifecycleReader, profileService, logger)
	go consumer.ConsumePayrollMarkedDone(ctx, payrollReader, payrollService, logger)

	sig := bootstrap.WaitForSignal()
	logger.Info("consumer shutting down", zap.String("signal", sig.String()))
	cancel()

	return nil
}
