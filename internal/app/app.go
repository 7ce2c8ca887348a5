package app

import (
	"context"
	"database/sql"
	"fmt"

	"workzen/internal/attendance"
	"workzen/internal/employee"
	"workzen/internal/leave"
	"workzen/internal/messaging/kafka"
	"workzen/internal/payroll"
	"workzen/internal/payrun"
	"workzen/internal/profile"
	"workzen/internal/shared/config"
	"workzen/internal/shared/connection"
	"workzen/internal/shared/counter"
	"workzen/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the shared connections of one process.
type Infra struct {
	Config config.Config
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.SQLDB != nil {
		_ = i.SQLDB.Close()
	}
}

func connectDatabase(cfg config.Config) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.ConnectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	return &Infra{Config: cfg, GormDB: gormDB, SQLDB: sqlDB}, nil
}

// Migrate creates or updates every table the services rely on.
func Migrate(ctx context.Context, infra *Infra) error {
	if err := infra.GormDB.WithContext(ctx).AutoMigrate(
		&employee.Employee{},
		&attendance.Attendance{},
		&leave.Leave{},
		&profile.Profile{},
		&user.User{},
		&payrun.Payrun{},
		&payroll.Payroll{},
		&payroll.PayrollComponent{},
		&counter.CompanyCounter{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := kafka.EnsureOutboxSchema(ctx, infra.SQLDB); err != nil {
		return fmt.Errorf("outbox schema: %w", err)
	}
	return nil
}

// BuildApp connects infrastructure, migrates, seeds the first admin and mounts every module on
// router. The returned Infra must be closed by the caller.
func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config, logger *zap.Logger) (*Infra, error) {
	log := logger.Named("app")

	infra, err := connectDatabase(cfg)
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		infra.Close()
		return nil, err
	}
	infra.Redis = rdb

	if cfg.RunMigrations {
		if err := Migrate(ctx, infra); err != nil {
			infra.Close()
			return nil, err
		}
		log.Info("migrations applied")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Client-Type", "Idempotency-Key"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
	}))

	modules, err := registerModules(router, infra, logger)
	if err != nil {
		infra.Close()
		return nil, err
	}

	if cfg.SeedAdminEmail != "" {
		if err := modules.auth.EnsureAdmin(ctx, cfg.SeedCompanyID, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			infra.Close()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	return infra, nil
}
