package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elfportal/internal/handlers"
	"elfportal/internal/middleware"
	"elfportal/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	auth *services.AuthService,
	cookieName string,
	siteHandler *handlers.SiteHandler,
	authHandler *handlers.AuthHandler,
	dashboardHandler *handlers.DashboardHandler,
	clientHandler *handlers.ClientHandler,
	projectHandler *handlers.ProjectHandler,
	starterPlanHandler *handlers.StarterPlanHandler,
	todoHandler *handlers.TodoHandler,
	resourceHandler *handlers.ResourceHandler,
	messageHandler *handlers.MessageHandler,
	userHandler *handlers.UserHandler,
) *gin.Engine {

	// ---- public marketing site
	r.GET("/", siteHandler.Home)
	r.GET("/solutions", siteHandler.Solutions)
	r.GET("/about", siteHandler.About)
	r.GET("/enquire", siteHandler.Enquire)
	r.POST("/contact", siteHandler.Contact)
	r.GET("/robots.txt", siteHandler.Robots)
	r.GET("/sitemap.xml", siteHandler.Sitemap)
	r.GET("/healthz", siteHandler.Healthz)

	// login is the only internal page reachable without a session
	r.GET("/internal/login", authHandler.LoginPage)
	r.POST("/internal/login", authHandler.Login)
	r.GET("/internal/logout", func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	// ---- internal portal
	internal := r.Group("/internal",
		middleware.RequireSession(auth, cookieName),
		middleware.RequireCSRF(),
	)
	{
		internal.POST("/logout", authHandler.Logout)
		internal.GET("/session", authHandler.Session)
		internal.GET("/dashboard", dashboardHandler.Dashboard)
		internal.GET("/go", dashboardHandler.Go)

		internal.GET("/clients", clientHandler.List)
		internal.POST("/clients/add", clientHandler.Add)

		internal.GET("/projects", projectHandler.List)
		internal.POST("/projects/add", projectHandler.Add)
		internal.GET("/projects/:id/brief.pdf", projectHandler.BriefPDF)
		internal.POST("/projects/:id/delete", projectHandler.Delete)

		internal.GET("/starter-plan", starterPlanHandler.Show)
		internal.POST("/starter-plan", starterPlanHandler.Update)

		internal.GET("/todos", todoHandler.List)
		internal.POST("/todos/add", todoHandler.Add)
		internal.POST("/todos/:id/status", todoHandler.UpdateStatus)
		internal.POST("/todos/:id/priority", todoHandler.UpdatePriority)

		internal.GET("/resources", resourceHandler.List)
		internal.POST("/resources/add", resourceHandler.Add)
		internal.GET("/resources/files/:name", resourceHandler.ServeFile)

		internal.GET("/messages", messageHandler.List)
		internal.POST("/messages/direct/start", messageHandler.StartDirect)
		internal.POST("/messages/group/create", messageHandler.CreateGroup)
		internal.POST("/messages/post", messageHandler.Post)

		internal.GET("/users", userHandler.List)
		internal.POST("/users/add", userHandler.Add)
	}

	return r
}
