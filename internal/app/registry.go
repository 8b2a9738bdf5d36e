package app

import (
	"database/sql"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payslip"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/taxrule"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	payslipDir string,
) error {
	// --- Tax rules ---
	rules := taxrule.Default()
	if err := rules.Validate(); err != nil {
		return err
	}

	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Collaborators ---
	directory := employee.NewDirectory(employeeRepo, rdb)

	payslipStore, err := payslip.NewFSStore(payslipDir)
	if err != nil {
		return err
	}
	payslipGenerator := payslip.NewGenerator(payslipStore, counterRepo)

	// --- Services ---
	calc := deduction.NewCalculator(rules)
	payrollService := payroll.NewServiceWithOutbox(db, payrollRepo, directory, calc, payslipGenerator, outboxRepo)

	// --- Handlers ---
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)

	// --- Middleware & Routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(50, 100))

	api := router.Group("/api/v1")
	{
		payroll.RegisterRoutes(api, payrollHandler, rdb)
	}

	return nil
}
