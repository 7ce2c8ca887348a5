package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"workzen/internal/leave"
	leaveerrors "workzen/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeLeaveService struct {
	createFn  func(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getAllFn  func(ctx context.Context, companyID, actorID string, canReadAll bool) ([]leave.LeaveResponse, error)
	getByIDFn func(ctx context.Context, companyID, actorID, id string, canReadAll bool) (leave.LeaveResponse, error)
	approveFn func(ctx context.Context, companyID, actorID, id string) (leave.LeaveResponse, error)
	rejectFn  func(ctx context.Context, companyID, actorID, id, rejectionReason string) (leave.LeaveResponse, error)
	deleteFn  func(ctx context.Context, companyID, id string) error
}

func (f *fakeLeaveService) Create(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, companyID, actorID, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, companyID, actorID, canReadAll)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, companyID, actorID, id string, canReadAll bool) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, companyID, actorID, id, canReadAll)
}
func (f *fakeLeaveService) Approve(ctx context.Context, companyID, actorID, id string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, companyID, actorID, id)
}
func (f *fakeLeaveService) Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, companyID, actorID, id, rejectionReason)
}
func (f *fakeLeaveService) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}
func (f *fakeLeaveService) FindApprovedOverlapping(ctx context.Context, companyID, employeeID, leaveType string, from, to time.Time) ([]leave.LeaveResponse, error) {
	return nil, nil
}

func jsonContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("employee files for self", func(t *testing.T) {
		companyID := uuid.New().String()
		actorID := uuid.New().String()

		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, cid, aid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, actorID, aid)
				// employee_id in the body is ignored without read_all
				assert.Equal(t, actorID, req.EmployeeID)
				return leave.LeaveResponse{
					ID:         uuid.New().String(),
					CompanyID:  cid,
					EmployeeID: req.EmployeeID,
					LeaveType:  req.LeaveType,
					TotalDays:  2,
					Status:     leave.StatusPending,
					CreatedBy:  aid,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		body := `{"employee_id":"` + uuid.New().String() + `","leave_type":"PAID_TIME_OFF","start_date":"2026-03-10","end_date":"2026-03-11"}`
		c, w := jsonContext(http.MethodPost, "/leaves", body)
		c.Set("company_id", companyID)
		c.Set("user_id_validated", actorID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, actorID, got.EmployeeID)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("hr files for another employee", func(t *testing.T) {
		target := uuid.New().String()
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, cid, aid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, target, req.EmployeeID)
				return leave.LeaveResponse{EmployeeID: req.EmployeeID}, nil
			},
		}
		h := leave.NewHandler(svc)
		body := `{"employee_id":"` + target + `","leave_type":"SICK_TIME_OFF","start_date":"2026-03-10","end_date":"2026-03-10"}`
		c, w := jsonContext(http.MethodPost, "/leaves", body)
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())
		c.Set("has_read_all", true)

		h.Create(c)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := jsonContext(http.MethodPost, "/leaves", `{"leave_type":"ANNUAL"}`)

		h.Create(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative overlap returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, cid, aid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}
		h := leave.NewHandler(svc)
		c, w := jsonContext(http.MethodPost, "/leaves", `{"leave_type":"UNPAID","start_date":"2026-03-10","end_date":"2026-03-10"}`)
		c.Set("employee_id", uuid.New().String())

		h.Create(c)
		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	t.Run("filters and paginates", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, cid, aid string, canReadAll bool) ([]leave.LeaveResponse, error) {
				assert.True(t, canReadAll)
				return []leave.LeaveResponse{
					{ID: "1", Status: leave.StatusPending, LeaveType: leave.TypePaidTimeOff},
					{ID: "2", Status: leave.StatusApproved, LeaveType: leave.TypePaidTimeOff},
					{ID: "3", Status: leave.StatusPending, LeaveType: leave.TypeUnpaid},
				}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := jsonContext(http.MethodGet, "/leaves?status=pending&page=1&page_size=5", "")
		c.Set("has_read_all", true)

		h.GetAll(c)
		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got []leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 2)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, cid, aid string, canReadAll bool) ([]leave.LeaveResponse, error) {
				return nil, errors.New("db down")
			},
		}
		h := leave.NewHandler(svc)
		c, w := jsonContext(http.MethodGet, "/leaves", "")

		h.GetAll(c)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.NotContains(t, env.Error.Message, "db down")
	})
}

func TestLeaveHandler_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			getByIDFn: func(ctx context.Context, cid, aid, id string, canReadAll bool) (leave.LeaveResponse, error) {
				assert.Equal(t, "abc", id)
				assert.False(t, canReadAll)
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}
		h := leave.NewHandler(svc)
		c, w := jsonContext(http.MethodGet, "/leaves/abc", "")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		h.GetById(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLeaveHandler_Review(t *testing.T) {
	id := uuid.New().String()

	t.Run("approve uses user_id_validated fallback", func(t *testing.T) {
		actorID := uuid.New().String()
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, cid, aid, lid string) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, id, lid)
				return leave.LeaveResponse{ID: lid, Status: leave.StatusApproved}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := jsonContext(http.MethodPost, "/leaves/"+id+"/approve", "")
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Set("user_id_validated", actorID)

		h.Approve(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := jsonContext(http.MethodPost, "/leaves/"+id+"/reject", `{}`)
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.Reject(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("reject success", func(t *testing.T) {
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, cid, aid, lid, reason string) (leave.LeaveResponse, error) {
				assert.Equal(t, "Quarter close", reason)
				return leave.LeaveResponse{ID: lid, Status: leave.StatusRejected, RejectionReason: &reason}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := jsonContext(http.MethodPost, "/leaves/"+id+"/reject", `{"rejection_reason":"Quarter close"}`)
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.Reject(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("approve twice conflicts", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, cid, aid, lid string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
			},
		}
		h := leave.NewHandler(svc)
		c, w := jsonContext(http.MethodPost, "/leaves/"+id+"/approve", "")
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.Approve(c)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLeaveHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			deleteFn: func(ctx context.Context, cid, id string) error { return nil },
		}
		h := leave.NewHandler(svc)
		c, w := jsonContext(http.MethodDelete, "/leaves/x", "")
		c.Params = gin.Params{{Key: "id", Value: "x"}}

		h.Delete(c)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"deleted":true`)
	})

	t.Run("negative non pending", func(t *testing.T) {
		svc := &fakeLeaveService{
			deleteFn: func(ctx context.Context, cid, id string) error { return leaveerrors.ErrOnlyPendingDeletable },
		}
		h := leave.NewHandler(svc)
		c, w := jsonContext(http.MethodDelete, "/leaves/x", "")

		h.Delete(c)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
