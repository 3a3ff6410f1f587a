package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/access"
	iauth "github.com/mornivek/stafflane/internal/auth"
	"github.com/mornivek/stafflane/internal/handlers"
	"github.com/mornivek/stafflane/internal/middleware"
	"github.com/mornivek/stafflane/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers routes.
// The module gate table is validated up front so a misconfigured gate stops
// the process instead of silently denying traffic.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, sessions *iauth.SessionService, userCfg services.UserServiceConfig) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}

	if err := access.ValidateModules(); err != nil {
		return nil, err
	}

	identityResolver, err := access.NewResolver(db)
	if err != nil {
		return nil, err
	}
	projectResolver, err := access.NewProjectResolver(db)
	if err != nil {
		return nil, err
	}

	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	userSvc, err := services.NewUserService(db, auditSvc, userCfg)
	if err != nil {
		return nil, err
	}
	projectSvc, err := services.NewProjectService(db, projectResolver, auditSvc)
	if err != nil {
		return nil, err
	}
	grantSvc, err := services.NewProjectAccessService(db, projectResolver, auditSvc)
	if err != nil {
		return nil, err
	}
	billSvc, err := services.NewBillService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	employeeSvc, err := services.NewEmployeeService(db, auditSvc)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	r.NoRoute(middleware.NotFoundHandler)

	r.GET("/health", handlers.Health())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(userSvc, sessions)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Everything below requires a valid token and a resolved identity.
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))
	api.POST("/auth/logout", authHandler.Logout)

	api.Use(middleware.Identity(identityResolver))
	api.GET("/auth/me", authHandler.Me)

	projectHandler := handlers.NewProjectHandler(projectSvc)
	grantHandler := handlers.NewProjectAccessHandler(grantSvc)
	projects := api.Group("/projects", middleware.RequireModule(access.ModuleProjects))
	{
		projects.GET("", projectHandler.List)
		projects.POST("", projectHandler.Create)
		projects.GET("/:id", projectHandler.Get)
		projects.PATCH("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)

		projects.GET("/:id/access", grantHandler.List)
		projects.POST("/:id/access", grantHandler.Grant)
		projects.DELETE("/:id/access/:userId", grantHandler.Revoke)
	}

	billHandler := handlers.NewBillHandler(billSvc)
	bills := api.Group("/bills", middleware.RequireModule(access.ModuleFinance))
	{
		bills.GET("", billHandler.List)
		bills.GET("/:id", billHandler.Get)
		bills.POST("", billHandler.Create)
		bills.POST("/:id/approve", billHandler.Approve)
		bills.POST("/:id/pay", billHandler.MarkPaid)
	}

	employeeHandler := handlers.NewEmployeeHandler(employeeSvc)
	employees := api.Group("/employees", middleware.RequireModule(access.ModuleHR))
	{
		employees.GET("", employeeHandler.List)
		employees.PUT("", employeeHandler.Upsert)
		employees.POST("/:id/deactivate", employeeHandler.Deactivate)
	}

	auditHandler := handlers.NewAuditHandler(auditSvc)
	audit := api.Group("/audit", middleware.RequireModule(access.ModuleReports))
	{
		audit.GET("", auditHandler.List)
	}

	return r, nil
}
