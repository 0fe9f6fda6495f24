package routes

import (
	"github.com/gin-gonic/gin"

	"tenantcrm/internal/handlers"
	"tenantcrm/internal/middleware"
	"tenantcrm/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authService services.AuthService,
	authHandler *handlers.AuthHandler,
	companyHandler *handlers.CompanyHandler,
	contactHandler *handlers.ContactHandler,
	dealHandler *handlers.DealHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	handlers.RegisterValidation()

	api := r.Group("/api")

	// ---- public
	api.GET("/health", healthHandler.Health)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// ---- protected
	protected := api.Group("", middleware.AuthMiddleware(authService))

	protected.GET("/auth/me", authHandler.Me)

	// COMPANIES
	companies := protected.Group("/companies")
	{
		companies.GET("", companyHandler.List)
		companies.POST("", companyHandler.Create)
		companies.GET("/:id", companyHandler.GetByID)
		companies.PUT("/:id", companyHandler.Update)
		companies.DELETE("/:id", companyHandler.Delete)
	}

	// CONTACTS
	contacts := protected.Group("/contacts")
	{
		contacts.GET("", contactHandler.List)
		contacts.POST("", contactHandler.Create)
		contacts.GET("/company/:companyId", contactHandler.ListByCompany)
		contacts.GET("/:id", contactHandler.GetByID)
		contacts.PUT("/:id", contactHandler.Update)
		contacts.DELETE("/:id", contactHandler.Delete)
	}

	// DEALS
	deals := protected.Group("/deals")
	{
		deals.GET("", dealHandler.List)
		deals.POST("", dealHandler.Create)
		deals.GET("/company/:companyId", dealHandler.ListByCompany)
		deals.GET("/:id", dealHandler.GetByID)
		deals.PUT("/:id", dealHandler.Update)
		deals.DELETE("/:id", dealHandler.Delete)
	}

	return r
}
