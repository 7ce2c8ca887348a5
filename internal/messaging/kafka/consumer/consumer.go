package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"workzen/internal/events"
	"workzen/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type ProfileEnsurer interface {
	EnsureForEmployee(ctx context.Context, companyID, employeeID string) error
}

type PayslipArchiver interface {
	ArchivePayslip(ctx context.Context, companyID, payrollID string) (string, error)
}

var errMalformed = errors.New("malformed event")

// retryDelay is how long a consumer waits after a transient failure before fetching again.
var retryDelay = time.Second

type handleFunc func(ctx context.Context, msg kafkago.Message) error

// ConsumeEmployeeLifecycle makes sure every new employee has an (empty) profile row.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	profiles ProfileEnsurer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	run(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: %v", errMalformed, err)
		}
		if event.EventType != "" && event.EventType != events.EventTypeEmployeeCreated {
			log.Debug("ignoring employee lifecycle event", zap.String("event_type", event.EventType))
			return nil
		}

		err := profiles.EnsureForEmployee(ctx, event.CompanyID, event.EmployeeID)
		if err != nil && isUniqueProfileViolation(err) {
			log.Warn("profile already exists for employee, skipping",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
			)
			return nil
		}
		if err != nil {
			return err
		}

		log.Info("profile ensured from employee_created event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
		)
		return nil
	})
}

// ConsumePayrollMarkedDone renders and archives the payslip PDF of each computed payroll.
func ConsumePayrollMarkedDone(
	ctx context.Context,
	reader MessageReader,
	payslips PayslipArchiver,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_marked_done")
	run(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		var event events.PayrollMarkedDoneEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: %v", errMalformed, err)
		}

		path, err := payslips.ArchivePayslip(ctx, event.CompanyID, event.PayrollID)
		if err != nil {
			return err
		}

		log.Info("payslip archived",
			zap.String("payroll_id", event.PayrollID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("path", path),
		)
		return nil
	})
}

func run(ctx context.Context, reader MessageReader, log *zap.Logger, handle handleFunc) {
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			if !sleep(ctx, retryDelay) {
				return
			}
			continue
		}

		fields := []zap.Field{
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		}

		if err := handle(ctx, msg); err != nil {
			if !isPermanent(err) {
				// left uncommitted so the group redelivers it after a restart or rebalance
				log.Error("handle message failed", append(fields, zap.Error(err))...)
				if !sleep(ctx, retryDelay) {
					return
				}
				continue
			}
			log.Warn("dropping unprocessable message", append(fields, zap.Error(err))...)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", append(fields, zap.Error(err))...)
		}
	}
}

// isPermanent reports errors that retrying cannot fix: bad payloads and client-side app errors.
func isPermanent(err error) bool {
	if errors.Is(err, errMalformed) {
		return true
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus < http.StatusInternalServerError
	}
	return false
}

func isUniqueProfileViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_profile_employee"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_profile_employee")
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
