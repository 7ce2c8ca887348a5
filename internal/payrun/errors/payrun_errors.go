package payrunerrors

import (
	"net/http"

	"workzen/internal/shared/apperror"
)

var (
	ErrPayrunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payrun not found",
		http.StatusNotFound,
	)
	ErrPayrunClosed = apperror.New(
		apperror.CodeInvalidState,
		"payrun for this period is closed",
		http.StatusConflict,
	)
	ErrPayrunAlreadyClosed = apperror.New(
		apperror.CodeInvalidState,
		"payrun is already closed",
		http.StatusConflict,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be 1-12 and year a four digit year",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
)
