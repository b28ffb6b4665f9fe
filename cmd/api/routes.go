package main

import (
	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/config"
	"qualiobra/cmd/internal/http/handler"
	appmiddleware "qualiobra/cmd/internal/http/middleware"
	"qualiobra/cmd/internal/metrics"
)

type apiRoutes struct {
	auth          *handler.DefaultAuthRoute
	tenants       *handler.DefaultTenantRoute
	users         *handler.DefaultUserRoute
	projects      *handler.DefaultProjectRoute
	catalog       *handler.DefaultCatalogRoute
	contractors   *handler.DefaultContractorRoute
	contracts     *handler.DefaultContractRoute
	inspections   *handler.DefaultInspectionRoute
	issues        *handler.DefaultIssueRoute
	measurements  *handler.DefaultMeasurementRoute
	diaries       *handler.DefaultDiaryRoute
	planning      *handler.DefaultPlanningRoute
	notifications *handler.DefaultNotificationRoute
	lookup        *handler.DefaultLookupRoute
	websocket     *handler.DefaultWSRoute
}

func registerRoutes(e *echo.Echo, cfg *config.Config, authMiddleware echo.MiddlewareFunc, r *apiRoutes) {
	loginLimiter := appmiddleware.NewLoginRateLimiter(cfg.Server.LoginRateLimit, cfg.Server.LoginRateWindow)
	apiLimiter := appmiddleware.NewAPIRateLimiter(cfg.Server.APIRateLimit, cfg.Server.APIRateBurst)

	// Public
	public := e.Group("/api/auth", loginLimiter)
	public.POST("/register", r.auth.Register)
	public.POST("/login", r.auth.Login)
	public.POST("/confirms", r.auth.ConfirmSignup)
	public.POST("/confirms/resend", r.auth.ResendConfirmation)

	api := e.Group("/api", apiLimiter, authMiddleware)
	api.GET("/me", r.auth.Me)
	api.GET("/lookup/cnpj/:cnpj", r.lookup.GetCompany)

	// Platform operators
	platform := api.Group("/platform", appmiddleware.RequirePlatform())
	platform.GET("/tenants", r.tenants.ListTenants)
	platform.PATCH("/tenants/:id/status", r.tenants.SetStatus)

	tenant := api.Group("", appmiddleware.RequireTenant())

	// Company
	tenant.GET("/tenant", r.tenants.GetTenant)
	tenant.PATCH("/tenant", r.tenants.UpdateTenant)
	tenant.PUT("/tenant/logo", r.tenants.UploadLogo)

	// Users
	tenant.GET("/users", r.users.GetUsers)
	tenant.GET("/users/:id", r.users.GetUser)
	tenant.POST("/users", r.users.InviteUser)
	tenant.PATCH("/users/:id/role", r.users.UpdateRole)
	tenant.POST("/users/:id/toggle-active", r.users.ToggleActive)

	// Projects and locations
	tenant.GET("/projects", r.projects.GetProjects)
	tenant.GET("/projects/:id", r.projects.GetProject)
	tenant.POST("/projects", r.projects.CreateProject)
	tenant.PATCH("/projects/:id", r.projects.UpdateProject)
	tenant.POST("/projects/:id/toggle-active", r.projects.ToggleProjectActive)
	tenant.GET("/projects/:id/locations", r.projects.GetLocations)
	tenant.POST("/projects/:id/locations", r.projects.CreateLocation)
	tenant.PATCH("/locations/:id", r.projects.UpdateLocation)
	tenant.DELETE("/locations/:id", r.projects.DeleteLocation)

	// Service catalog
	tenant.GET("/services", r.catalog.GetServices)
	tenant.GET("/services/:id", r.catalog.GetService)
	tenant.POST("/services", r.catalog.CreateService)
	tenant.PATCH("/services/:id", r.catalog.UpdateService)
	tenant.PUT("/services/:id/criteria", r.catalog.ReplaceCriteria)

	// Contractors and contracts
	tenant.GET("/contractors", r.contractors.GetContractors)
	tenant.GET("/contractors/:id", r.contractors.GetContractor)
	tenant.POST("/contractors", r.contractors.CreateContractor)
	tenant.PATCH("/contractors/:id", r.contractors.UpdateContractor)
	tenant.POST("/contractors/:id/toggle-active", r.contractors.ToggleContractorActive)
	tenant.GET("/contracts", r.contracts.GetContracts)
	tenant.GET("/contracts/:id", r.contracts.GetContract)
	tenant.POST("/contracts", r.contracts.CreateContract)
	tenant.PATCH("/contracts/:id", r.contracts.UpdateContract)
	tenant.PUT("/contracts/:id/items", r.contracts.ReplaceItems)

	// Inspections
	tenant.GET("/inspections", r.inspections.GetInspections)
	tenant.GET("/inspections/:id", r.inspections.GetInspection)
	tenant.POST("/inspections", r.inspections.CreateInspection)
	tenant.POST("/inspections/:id/start", r.inspections.StartInspection)
	tenant.PATCH("/inspections/:id/items/:itemId", r.inspections.EvaluateItem)
	tenant.POST("/inspections/:id/items/:itemId/photos", r.inspections.UploadPhoto)
	tenant.POST("/inspections/:id/complete", r.inspections.CompleteInspection)
	tenant.DELETE("/inspections/:id", r.inspections.DeleteInspection)

	// Issues
	tenant.GET("/issues", r.issues.GetIssues)
	tenant.GET("/issues/:id", r.issues.GetIssue)
	tenant.PATCH("/issues/:id", r.issues.UpdateIssue)
	tenant.POST("/issues/:id/status", r.issues.UpdateStatus)

	// Measurement bulletins
	tenant.GET("/bulletins", r.measurements.GetBulletins)
	tenant.GET("/bulletins/:id", r.measurements.GetBulletin)
	tenant.POST("/bulletins", r.measurements.CreateBulletin)
	tenant.PUT("/bulletins/:id", r.measurements.UpdateBulletin)
	tenant.POST("/bulletins/:id/submit", r.measurements.SubmitBulletin)
	tenant.POST("/bulletins/:id/review", r.measurements.ReviewBulletin)
	tenant.POST("/bulletins/:id/approve", r.measurements.ApproveBulletin)
	tenant.POST("/bulletins/:id/reject", r.measurements.RejectBulletin)
	tenant.POST("/bulletins/:id/reopen", r.measurements.ReopenBulletin)
	tenant.DELETE("/bulletins/:id", r.measurements.DeleteBulletin)
	tenant.GET("/contracts/:id/items/:itemId/history", r.measurements.GetItemHistory)

	// Site diary
	tenant.GET("/diaries", r.diaries.GetDiaries)
	tenant.GET("/diaries/:id", r.diaries.GetDiary)
	tenant.POST("/diaries", r.diaries.CreateDiary)
	tenant.PUT("/diaries/:id", r.diaries.UpdateDiary)
	tenant.DELETE("/diaries/:id", r.diaries.DeleteDiary)

	// Planning
	tenant.GET("/planning", r.planning.Grid)
	tenant.POST("/planning", r.planning.CreatePlanningItem)
	tenant.DELETE("/planning/:id", r.planning.DeletePlanningItem)

	// Notifications
	tenant.GET("/notifications", r.notifications.GetNotifications)
	tenant.GET("/notifications/unread-count", r.notifications.CountUnread)
	tenant.POST("/notifications/:id/read", r.notifications.MarkRead)
	tenant.POST("/notifications/read-all", r.notifications.MarkAllRead)

	// API Gateway websocket integration
	e.POST("/ws/connect", r.websocket.HandleConnect, authMiddleware)
	e.POST("/ws/disconnect", r.websocket.HandleDisconnect)
	e.POST("/ws/message", r.websocket.HandleMessage)

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
