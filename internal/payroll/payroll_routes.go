package payroll

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payrolls := r.Group("/payroll")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("/history/:employeeId", handler.GetHistory)
		payrolls.GET("/records/:id", handler.GetRecord)
		payrolls.GET("/records/:id/payslip/download", handler.DownloadPayslip)
		if redisClient != nil {
			payrolls.POST("/process", middleware.Idempotency(redisClient), handler.Process)
		} else {
			payrolls.POST("/process", handler.Process)
		}
		payrolls.POST("/bulk", handler.ProcessBulk)
	}
}
