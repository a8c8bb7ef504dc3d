package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskforge/backend/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Task         *apiHandler.TaskHandler
	Project      *apiHandler.ProjectHandler
	Report       *apiHandler.ReportHandler
	Notification *apiHandler.NotificationHandler
	Admin        *apiHandler.AdminHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Health)

	// Auth routes
	r.POST("/api/v1/auth/login", authMiddleware(handlers.Auth.Login))
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)
	r.GET("/api/v1/auth/me", authMiddleware(handlers.Auth.Me))

	// Task routes
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/complete", authMiddleware(handlers.Task.CompleteTask))
	r.POST("/api/v1/tasks/{id}/assignees", authMiddleware(handlers.Task.AddAssignee))
	r.DELETE("/api/v1/tasks/{id}/assignees/{staffId}", authMiddleware(handlers.Task.RemoveAssignee))

	// Project routes
	r.GET("/api/v1/projects", authMiddleware(handlers.Project.GetProjects))
	r.POST("/api/v1/projects", authMiddleware(handlers.Project.CreateProject))
	r.GET("/api/v1/projects/{id}", authMiddleware(handlers.Project.GetProject))
	r.PUT("/api/v1/projects/{id}", authMiddleware(handlers.Project.UpdateProject))
	r.DELETE("/api/v1/projects/{id}", authMiddleware(handlers.Project.DeleteProject))

	// Report routes, manager or admin only (enforced in the use case)
	r.GET("/api/v1/reports/completion", authMiddleware(handlers.Report.Completion))
	r.GET("/api/v1/reports/time", authMiddleware(handlers.Report.Time))

	// Notification routes
	r.GET("/api/v1/notifications", authMiddleware(handlers.Notification.GetNotifications))
	r.POST("/api/v1/notifications/{id}/read", authMiddleware(handlers.Notification.MarkRead))

	// Admin routes
	r.GET("/api/v1/admin/staff", authMiddleware(handlers.Admin.GetStaff))
	r.PUT("/api/v1/admin/staff/{id}/role", authMiddleware(handlers.Admin.SetRole))

	return r
}
