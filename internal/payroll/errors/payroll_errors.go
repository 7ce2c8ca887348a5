package payrollerrors

import (
	"net/http"

	"workzen/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be 1-12 and year a four digit year",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of DRAFT, DONE, PAID",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrMissingBankDetails = apperror.New(
		apperror.CodePreconditionFailed,
		"bank account number and bank name must be recorded in the employee profile before payroll can be marked done",
		http.StatusUnprocessableEntity,
	)
	ErrPayrollAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payroll is already paid and can no longer be recomputed",
		http.StatusConflict,
	)
	ErrPayrollNotDone = apperror.New(
		apperror.CodeInvalidState,
		"only a DONE payroll can be marked paid",
		http.StatusConflict,
	)
	ErrPayslipNotArchivable = apperror.New(
		apperror.CodeInvalidState,
		"payslip can only be archived for a DONE or PAID payroll",
		http.StatusConflict,
	)
	ErrForbiddenPayslip = apperror.New(
		apperror.CodeForbidden,
		"you can only view your own payslip",
		http.StatusForbidden,
	)
	ErrBatchTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"at most 500 employees can be marked done in one batch",
		http.StatusBadRequest,
	)
)
