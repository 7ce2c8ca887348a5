package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	payrollerrors "workzen/internal/payroll/errors"
	"workzen/internal/shared/period"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dashboardWindow = 6

func dashboardCacheKey(companyID string, anchor period.Period) string {
	return fmt.Sprintf("payroll:dashboard:%s:%s", companyID, anchor.String())
}

func (s *service) GetDashboard(ctx context.Context, companyID string, anchor period.Period) (DashboardResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return DashboardResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	if err := anchor.Validate(); err != nil {
		return DashboardResponse{}, payrollerrors.ErrInvalidPeriod
	}

	key := dashboardCacheKey(companyID, anchor)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var resp DashboardResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	// Shared by every waiter on key, so it must outlive the first caller's request.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		resp, err := s.buildDashboard(shared, companyID, anchor)
		if err != nil {
			return DashboardResponse{}, err
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(shared, key, payload, s.cacheTTL).Err(); err != nil {
					s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return DashboardResponse{}, err
	}
	return v.(DashboardResponse), nil
}

func (s *service) buildDashboard(ctx context.Context, companyID string, anchor period.Period) (DashboardResponse, error) {
	window := anchor.Window(dashboardWindow)
	from, to := window[0], window[len(window)-1]

	runs, err := s.payruns.FindInWindow(ctx, companyID, from, to)
	if err != nil {
		return DashboardResponse{}, err
	}
	summaries, err := s.repo.SummarizeByPeriods(ctx, companyID, from, to)
	if err != nil {
		return DashboardResponse{}, err
	}
	warnings, err := s.profiles.FindMissingBankDetails(ctx, companyID)
	if err != nil {
		return DashboardResponse{}, err
	}

	sums := make(map[string]PeriodSummary, len(summaries))
	for _, sm := range summaries {
		sums[period.Period{Month: sm.Month, Year: sm.Year}.String()] = sm
	}

	resp := DashboardResponse{
		Anchor:      anchor.String(),
		Months:      make([]DashboardMonth, 0, len(window)),
		Warnings:    warnings,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
	}
	if resp.Warnings == nil {
		resp.Warnings = []BankDetailsWarning{}
	}

	for _, p := range window {
		month := DashboardMonth{
			Month:        p.Month,
			Year:         p.Year,
			Period:       p.String(),
			EmployerCost: decimal.Zero,
			NetAmount:    decimal.Zero,
		}
		for _, run := range runs {
			if run.Month == p.Month && run.Year == p.Year {
				month.PayrunID = run.ID.String()
				month.PayrunStatus = run.Status
				break
			}
		}
		if sm, ok := sums[p.String()]; ok {
			month.EmployerCost = sm.EmployerCost
			month.NetAmount = sm.NetAmount
			month.EmployeeCount = sm.EmployeeCount
		}
		resp.Months = append(resp.Months, month)
	}

	return resp, nil
}

// invalidateDashboard drops every cached dashboard whose window contains p.
func (s *service) invalidateDashboard(ctx context.Context, companyID string, p period.Period) {
	if s.rdb == nil {
		return
	}
	keys := make([]string, 0, dashboardWindow)
	for i := 0; i < dashboardWindow; i++ {
		keys = append(keys, dashboardCacheKey(companyID, p.AddMonths(i)))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.String("company_id", companyID), zap.Error(err))
	}
}
