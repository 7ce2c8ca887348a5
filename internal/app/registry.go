package app

import (
	"workzen/internal/attendance"
	"workzen/internal/auth"
	"workzen/internal/employee"
	"workzen/internal/leave"
	"workzen/internal/messaging/kafka"
	"workzen/internal/middleware"
	"workzen/internal/payroll"
	"workzen/internal/payrun"
	"workzen/internal/profile"
	"workzen/internal/rbac"
	"workzen/internal/shared/counter"
	"workzen/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type modules struct {
	auth auth.Service
}

func registerModules(router *gin.Engine, infra *Infra, logger *zap.Logger) (*modules, error) {
	cfg := infra.Config
	db := infra.SQLDB
	gormDB := infra.GormDB
	rdb := infra.Redis

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	payrunRepo := payrun.NewRepository(gormDB)
	profileRepo := profile.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService(logger)
	if err != nil {
		return nil, err
	}

	// --- Services ---
	attendanceService := attendance.NewService(db, attendanceRepo, logger)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	leaveService := leave.NewService(db, leaveRepo, logger)
	payrunService := payrun.NewService(db, payrunRepo, logger)
	profileService := profile.NewService(db, profileRepo, logger)
	userService := user.NewService(userRepo, employeeRepo, logger)
	authService := auth.NewService(userRepo, userService, cfg.JWTSecret, logger)
	payrollService := payroll.NewService(payroll.ServiceDeps{
		DB:         db,
		Repo:       payrollRepo,
		Payruns:    payrunRepo,
		Outbox:     outboxRepo,
		Employees:  payroll.NewEmployeeReader(employeeRepo),
		Attendance: payroll.NewAttendanceReader(attendanceRepo),
		Leaves:     payroll.NewLeaveReader(leaveRepo),
		Profiles:   payroll.NewProfileReader(profileRepo),
		Redis:      rdb,
		CacheTTL:   cfg.DashboardCacheTTL,
		PayslipDir: cfg.PayslipDir,
	}, logger)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	payrollHandler := payroll.NewHandler(payrollService, rdb, logger)
	payrunHandler := payrun.NewHandler(payrunService, logger)
	profileHandler := profile.NewHandler(profileService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)
	userHandler := user.NewHandler(userService, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, rbacService, logger)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, logger)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, logger)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb, logger)
		payrun.RegisterRoutes(api, payrunHandler, rbacService, logger)
		profile.RegisterRoutes(api, profileHandler, rbacService, logger)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService, logger)
	}

	return &modules{auth: authService}, nil
}
