package payroll

import (
	"fmt"
	"net/http"
	"time"

	"workzen/internal/middleware"
	payrollerrors "workzen/internal/payroll/errors"
	"workzen/internal/shared/apperror"
	"workzen/internal/shared/period"
	"workzen/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	now     func() time.Time
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, rdb: rdb, now: time.Now, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payroll request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// canReadEmployee lets roles with payslip read_all through; everyone else sees only their own.
func canReadEmployee(c *gin.Context, employeeID string) bool {
	if c.GetBool("has_read_all") {
		return true
	}
	return employeeID != "" && employeeID == c.GetString("employee_id")
}

func (h *Handler) Dashboard(c *gin.Context) {
	var q DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	anchor := period.Of(h.now())
	if q.Month != 0 || q.Year != 0 {
		p, err := period.New(q.Month, q.Year)
		if err != nil {
			h.writeServiceError(c, payrollerrors.ErrInvalidPeriod)
			return
		}
		anchor = p
	}

	resp, err := h.service.GetDashboard(c.Request.Context(), c.GetString("company_id"), anchor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	var q ListPayrollsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	rows, err := h.service.ListByPeriod(c.Request.Context(), c.GetString("company_id"),
		period.Period{Month: q.Month, Year: q.Year}, q.Status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if q.Page == 0 && q.PageSize == 0 {
		response.Success(c, http.StatusOK, rows, nil)
		return
	}
	start, end := response.Paginate(len(rows), q.Page, q.PageSize)
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	meta := response.NewPaginationMeta(int64(len(rows)), page, pageSize)
	response.Success(c, http.StatusOK, rows[start:end], &meta)
}

func (h *Handler) MarkDone(c *gin.Context) {
	var req MarkDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ReleaseIdempotency(c, h.rdb, nil)
		response.BindError(c, err)
		return
	}

	resp, err := h.service.MarkDone(c.Request.Context(), c.GetString("company_id"), getActorID(c), req)
	if err != nil {
		middleware.ReleaseIdempotency(c, h.rdb, nil)
		h.writeServiceError(c, err)
		return
	}

	middleware.ReleaseIdempotency(c, h.rdb, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkDoneBatch(c *gin.Context) {
	var req MarkDoneBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ReleaseIdempotency(c, h.rdb, nil)
		response.BindError(c, err)
		return
	}

	resp, err := h.service.MarkDoneBatch(c.Request.Context(), c.GetString("company_id"), getActorID(c), req)
	if err != nil {
		middleware.ReleaseIdempotency(c, h.rdb, nil)
		h.writeServiceError(c, err)
		return
	}

	middleware.ReleaseIdempotency(c, h.rdb, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) periodFor(c *gin.Context) (string, period.Period, bool) {
	employeeID := c.Param("employee_id")
	if !canReadEmployee(c, employeeID) {
		h.writeServiceError(c, payrollerrors.ErrForbiddenPayslip)
		return "", period.Period{}, false
	}

	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return "", period.Period{}, false
	}
	return employeeID, period.Period{Month: q.Month, Year: q.Year}, true
}

func (h *Handler) GetPayslip(c *gin.Context) {
	employeeID, p, ok := h.periodFor(c)
	if !ok {
		return
	}

	resp, err := h.service.GetPayslipDetail(c.Request.Context(), c.GetString("company_id"), employeeID, p)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DownloadPayslip(c *gin.Context) {
	employeeID, p, ok := h.periodFor(c)
	if !ok {
		return
	}

	data, filename, err := h.service.RenderPayslipPDF(c.Request.Context(), c.GetString("company_id"), employeeID, p)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentTypePDF, data)
}

func (h *Handler) yearFor(c *gin.Context) (string, int, bool) {
	employeeID := c.Param("employee_id")
	if !canReadEmployee(c, employeeID) {
		h.writeServiceError(c, payrollerrors.ErrForbiddenPayslip)
		return "", 0, false
	}

	var q YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return "", 0, false
	}
	return employeeID, q.Year, true
}

func (h *Handler) GetStatement(c *gin.Context) {
	employeeID, year, ok := h.yearFor(c)
	if !ok {
		return
	}

	resp, err := h.service.GetYearlyStatement(c.Request.Context(), c.GetString("company_id"), employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExportStatement(c *gin.Context) {
	employeeID, year, ok := h.yearFor(c)
	if !ok {
		return
	}

	data, filename, err := h.service.ExportYearlyStatementXLSX(c.Request.Context(), c.GetString("company_id"), employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentTypeXLSX, data)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	resp, err := h.service.MarkPaid(c.Request.Context(), c.GetString("company_id"), getActorID(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
