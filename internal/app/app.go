package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"elfportal/internal/config"
	"elfportal/internal/db"
	"elfportal/internal/handlers"
	"elfportal/internal/pdf"
	"elfportal/internal/repositories"
	"elfportal/internal/routes"
	"elfportal/internal/services"
)

const siteTitle = "ELF"

func Run() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	// === DB ===
	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal("failed to open the database: ", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("failed to close the database: %v", err)
		}
	}()

	if err := db.Migrate(ctx, conn, cfg.Database.Driver); err != nil {
		log.Fatal("migration failed: ", err)
	}
	if cfg.Site.Seed {
		if err := db.Seed(ctx, conn); err != nil {
			log.Fatal("seeding failed: ", err)
		}
	}
	if err := db.SeedAdminFromEnv(ctx, conn); err != nil {
		log.Fatal("admin seeding failed: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(conn)
	clientRepo := repositories.NewClientRepository(conn)
	projectRepo := repositories.NewProjectRepository(conn)
	taskRepo := repositories.NewTaskRepository(conn)
	resourceRepo := repositories.NewResourceRepository(conn)
	channelRepo := repositories.NewChannelRepository(conn)
	messageRepo := repositories.NewMessageRepository(conn)
	planRepo := repositories.NewStarterPlanRepository(conn)
	siteRepo := repositories.NewSiteRepository(conn)

	// === Services ===
	authService := services.NewAuthService(userRepo, cfg.Session.Secret,
		time.Duration(cfg.Session.TTLHours)*time.Hour)
	emailService := services.NewEmailService(
		cfg.Mail.SMTPHost,
		cfg.Mail.SMTPPort,
		cfg.Mail.SMTPUser,
		cfg.Mail.SMTPPass,
		cfg.Mail.From,
		cfg.Mail.LeadsTo,
	)
	notifier := services.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)

	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	projectService := services.NewProjectService(conn, projectRepo, clientRepo, planRepo, db.DefaultStarterPlanName)
	resourceService := services.NewResourceService(conn, resourceRepo, cfg.Files.RootDir)
	channelService := services.NewChannelService(conn, channelRepo, messageRepo, userRepo)
	dashboardService := services.NewDashboardService(clientRepo, projectRepo, taskRepo, resourceRepo)
	omnibarService := services.NewOmnibarService(projectRepo, taskRepo)

	briefGen := pdf.NewBriefGenerator(siteTitle)

	// === Handlers ===
	siteHandler := handlers.NewSiteHandler(siteRepo, emailService, notifier, cfg.Site.URL)
	authHandler := handlers.NewAuthHandler(authService, cfg.Session.CookieName)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, omnibarService)
	clientHandler := handlers.NewClientHandler(clientRepo)
	projectHandler := handlers.NewProjectHandler(
		projectService, resourceService, clientRepo, userRepo, taskRepo, briefGen, siteTitle)
	starterPlanHandler := handlers.NewStarterPlanHandler(projectService)
	todoHandler := handlers.NewTodoHandler(taskService, projectRepo, notifier)
	resourceHandler := handlers.NewResourceHandler(resourceService, projectRepo, taskRepo)
	messageHandler := handlers.NewMessageHandler(channelService, projectRepo, userRepo)
	userHandler := handlers.NewUserHandler(userService)

	// === Gin ===
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	routes.SetupRoutes(
		router,
		authService,
		cfg.Session.CookieName,
		siteHandler,
		authHandler,
		dashboardHandler,
		clientHandler,
		projectHandler,
		starterPlanHandler,
		todoHandler,
		resourceHandler,
		messageHandler,
		userHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[app] listening on %s (env=%s driver=%s)", listenAddr, cfg.Env, cfg.Database.Driver)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}
