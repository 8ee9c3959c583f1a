package router

import (
	"database/sql"

	"tiempos_backend/internal/handlers"
	"tiempos_backend/internal/middleware"
	"tiempos_backend/internal/repositories"
	"tiempos_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	businessRepo := repositories.NewBusinessRepository(db)
	periodRepo := repositories.NewPeriodRepository(db)
	closureRepo := repositories.NewClosureRepository(db)
	advanceRepo := repositories.NewAdvanceRepository(db)
	deductionRepo := repositories.NewDeductionRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	businessService := services.NewBusinessService(businessRepo, db)
	periodService := services.NewPeriodService(periodRepo, businessRepo, closureRepo, advanceRepo, deductionRepo, db)
	closureService := services.NewClosureService(closureRepo, businessRepo, db)
	advanceService := services.NewAdvanceService(advanceRepo, businessRepo, db)
	deductionService := services.NewDeductionService(deductionRepo, businessRepo, db)
	reportService := services.NewReportService(periodRepo, businessRepo, closureRepo, advanceRepo, deductionRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	businessHandler := handlers.NewBusinessHandler(businessService)
	periodHandler := handlers.NewPeriodHandler(periodService)
	closureHandler := handlers.NewClosureHandler(closureService)
	advanceHandler := handlers.NewAdvanceHandler(advanceService)
	deductionHandler := handlers.NewDeductionHandler(deductionService)
	reportHandler := handlers.NewReportHandler(reportService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupBusinessRoutes(authenticated, businessHandler, periodHandler, closureHandler, advanceHandler, deductionHandler, reportHandler)
		SetupPeriodRoutes(authenticated, periodHandler, reportHandler)
		SetupAdvanceRoutes(authenticated, advanceHandler)
		SetupDeductionRoutes(authenticated, deductionHandler)
	}
}
