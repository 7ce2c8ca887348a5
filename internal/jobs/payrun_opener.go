package jobs

import (
	"context"
	"time"

	"workzen/internal/payrun"
	"workzen/internal/shared/period"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultPayrunSchedule = "0 0 1 * *"

type CompanyLister interface {
	FindCompanyIDs(ctx context.Context) ([]string, error)
}

type PayrunEnsurer interface {
	Ensure(ctx context.Context, companyID, actorID string, p period.Period) (payrun.PayrunResponse, error)
}

// PayrunOpener opens the current month's payrun for every company with employees.
type PayrunOpener struct {
	companies CompanyLister
	payruns   PayrunEnsurer
	now       func() time.Time
	timeout   time.Duration
	logger    *zap.Logger
}

func NewPayrunOpener(companies CompanyLister, payruns PayrunEnsurer, logger *zap.Logger) *PayrunOpener {
	return &PayrunOpener{
		companies: companies,
		payruns:   payruns,
		now:       time.Now,
		timeout:   5 * time.Minute,
		logger:    logger.Named("jobs.payrun_opener"),
	}
}

// Run opens one payrun per company and returns how many succeeded. A failing company does
// not stop the others.
func (o *PayrunOpener) Run(ctx context.Context) (int, error) {
	p := period.Of(o.now())
	ids, err := o.companies.FindCompanyIDs(ctx)
	if err != nil {
		o.logger.Error("list companies failed", zap.Error(err))
		return 0, err
	}

	opened := 0
	for _, companyID := range ids {
		if _, err := o.payruns.Ensure(ctx, companyID, "", p); err != nil {
			o.logger.Error("open payrun failed",
				zap.String("company_id", companyID),
				zap.String("period", p.String()),
				zap.Error(err),
			)
			continue
		}
		opened++
	}

	o.logger.Info("payruns opened",
		zap.String("period", p.String()),
		zap.Int("companies", len(ids)),
		zap.Int("opened", opened),
	)
	return opened, nil
}

// Register adds the opener to c under schedule; an empty schedule uses DefaultPayrunSchedule.
func (o *PayrunOpener) Register(c *cron.Cron, schedule string) (cron.EntryID, error) {
	if schedule == "" {
		schedule = DefaultPayrunSchedule
	}
	return c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		defer cancel()
		_, _ = o.Run(ctx)
	})
}
