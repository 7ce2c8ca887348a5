package attendance

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	attendanceerrors "workzen/internal/attendance/errors"
	"workzen/internal/shared/apperror"
	"workzen/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), c.GetString("company_id"), getActorID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.CheckOut(c.Request.Context(), c.GetString("company_id"), getActorID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Mark(c *gin.Context) {
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Mark(c.Request.Context(), c.GetString("company_id"), getActorID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// GetAll returns the caller's own rows unless the read scope middleware granted has_read_all.
// Optional filters: employee_id, status, from, to (YYYY-MM-DD).
func (h *Handler) GetAll(c *gin.Context) {
	canReadAll := c.GetBool("has_read_all")
	resp, err := h.service.GetAll(c.Request.Context(), c.GetString("company_id"), getActorID(c), canReadAll)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	employeeID := strings.TrimSpace(c.Query("employee_id"))
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	from, to := c.Query("from"), c.Query("to")
	if employeeID != "" || status != "" || from != "" || to != "" {
		filtered := make([]AttendanceResponse, 0, len(resp))
		for _, a := range resp {
			if canReadAll && employeeID != "" && a.EmployeeID != employeeID {
				continue
			}
			if status != "" && a.Status != status {
				continue
			}
			if from != "" && a.AttendanceDate < from {
				continue
			}
			if to != "" && a.AttendanceDate > to {
				continue
			}
			filtered = append(filtered, a)
		}
		resp = filtered
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	start, end := response.Paginate(len(resp), page, pageSize)
	meta := response.NewPaginationMeta(int64(len(resp)), page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

// Summary counts days with the given status between from and to for one employee.
func (h *Handler) Summary(c *gin.Context) {
	employeeID := c.Query("employee_id")
	if employeeID == "" || !c.GetBool("has_read_all") {
		employeeID = getActorID(c)
	}
	status := strings.ToUpper(c.DefaultQuery("status", StatusPresent))

	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		h.writeServiceError(c, attendanceerrors.ErrInvalidDate)
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		h.writeServiceError(c, attendanceerrors.ErrInvalidDate)
		return
	}

	n, err := h.service.CountByStatus(c.Request.Context(), c.GetString("company_id"), employeeID, status, from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"employee_id": employeeID,
		"status":      status,
		"from":        from.Format(dateLayout),
		"to":          to.Format(dateLayout),
		"days":        n,
	}, nil)
}
