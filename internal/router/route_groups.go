package router

import (
	"tiempos_backend/internal/handlers"
	"tiempos_backend/internal/middleware"
	"tiempos_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupBusinessRoutes sets up the business routes and everything nested under
// a business: periods listing/creation, closures, advances, deductions and
// the trailing-window report.
func SetupBusinessRoutes(
	authenticatedGroup *gin.RouterGroup,
	businessHandler *handlers.BusinessHandler,
	periodHandler *handlers.PeriodHandler,
	closureHandler *handlers.ClosureHandler,
	advanceHandler *handlers.AdvanceHandler,
	deductionHandler *handlers.DeductionHandler,
	reportHandler *handlers.ReportHandler,
) {
	businessRoutes := authenticatedGroup.Group("/businesses")
	{
		businessRoutes.POST("", businessHandler.CreateBusiness)
		businessRoutes.GET("", businessHandler.GetBusinesses)
		businessRoutes.GET("/:id", businessHandler.GetBusinessByID)
		businessRoutes.PUT("/:id", businessHandler.UpdateBusiness)
		businessRoutes.DELETE("/:id", businessHandler.DeleteBusiness)

		businessRoutes.GET("/:id/periods", periodHandler.GetPeriods)
		businessRoutes.POST("/:id/periods", middleware.RoleAuthMiddleware(models.RoleAdmin), periodHandler.CreatePeriod)

		businessRoutes.GET("/:id/closures", closureHandler.GetClosures)
		businessRoutes.PUT("/:id/closures", closureHandler.SaveClosure)
		businessRoutes.GET("/:id/closures/:date", closureHandler.GetClosureForDate)

		businessRoutes.GET("/:id/advances", advanceHandler.GetAdvances)
		businessRoutes.POST("/:id/advances", advanceHandler.CreateAdvance)

		businessRoutes.GET("/:id/deductions", deductionHandler.GetDeductions)
		businessRoutes.POST("/:id/deductions", deductionHandler.CreateDeduction)

		businessRoutes.GET("/:id/reports/summary", reportHandler.GetRangeReport)
	}
}

// SetupPeriodRoutes sets up the period routes addressed by period ID.
func SetupPeriodRoutes(authenticatedGroup *gin.RouterGroup, periodHandler *handlers.PeriodHandler, reportHandler *handlers.ReportHandler) {
	periodRoutes := authenticatedGroup.Group("/periods")
	{
		periodRoutes.GET("/:id", periodHandler.GetPeriodByID)
		periodRoutes.PUT("/:id", periodHandler.UpdatePeriod)
		periodRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), periodHandler.DeletePeriod)

		periodRoutes.GET("/:id/summary", reportHandler.GetPeriodSummary)
		periodRoutes.GET("/:id/carry-over", reportHandler.GetCarryOver)
		periodRoutes.POST("/:id/carry-over", reportHandler.ImportCarryOver)
	}
}

// SetupAdvanceRoutes sets up the advance routes addressed by advance ID.
func SetupAdvanceRoutes(authenticatedGroup *gin.RouterGroup, advanceHandler *handlers.AdvanceHandler) {
	advanceRoutes := authenticatedGroup.Group("/advances")
	{
		advanceRoutes.DELETE("/:id", advanceHandler.DeleteAdvance)
	}
}

// SetupDeductionRoutes sets up the deduction routes addressed by deduction ID.
func SetupDeductionRoutes(authenticatedGroup *gin.RouterGroup, deductionHandler *handlers.DeductionHandler) {
	deductionRoutes := authenticatedGroup.Group("/deductions")
	{
		deductionRoutes.DELETE("/:id", deductionHandler.DeleteDeduction)
	}
}
