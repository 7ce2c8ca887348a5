package payroll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	payrollerrors "workzen/internal/payroll/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *service) ArchivePayslip(ctx context.Context, companyID, payrollID string) (string, error) {
	row, err := s.repo.FindByIDAndCompany(ctx, companyID, payrollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", payrollerrors.ErrPayrollNotFound
		}
		return "", err
	}
	if row.Status != StatusDone && row.Status != StatusPaid {
		return "", payrollerrors.ErrPayslipNotArchivable
	}

	detail := storedDetail(*row)
	data, err := RenderPayslip(detail)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.payslipDir, companyID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create payslip dir: %w", err)
	}
	path := filepath.Join(dir, payslipFilename(detail))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write payslip: %w", err)
	}

	if err := s.repo.SetPayslipPath(ctx, companyID, payrollID, path, s.now().UTC()); err != nil {
		return "", err
	}

	s.logger.Info("payslip archived",
		zap.String("payroll_id", payrollID),
		zap.String("path", path),
	)
	return path, nil
}
