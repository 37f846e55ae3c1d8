package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-task-api/internal/auth"
	"project-task-api/internal/client"
	"project-task-api/internal/database"
	"project-task-api/internal/handler"
	"project-task-api/internal/metrics"
	"project-task-api/internal/middleware"
	"project-task-api/internal/repository"
	"project-task-api/internal/service"
)

// Config holds router configuration
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer // defaults to prometheus.DefaultGatherer
	Tokens         *auth.TokenManager
	Blacklist      auth.Blacklist // defaults to auth.NoopBlacklist
	S3Client       client.S3ClientInterface
	Notification   client.NotificationClient
	BasePath       string
	AllowedOrigins []string
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics, cfg.BasePath))

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	metricsHandler := gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Prometheus metrics endpoint
	r.GET("/metrics", metricsHandler)
	if cfg.BasePath != "" && cfg.BasePath != "/" {
		r.GET(cfg.BasePath+"/metrics", metricsHandler)
	}

	// Health check routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": handler.ServiceName})
	})
	r.GET("/ready", func(c *gin.Context) {
		if cfg.DB == nil || database.Ping(c.Request.Context(), cfg.DB) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": handler.ServiceName})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": handler.ServiceName})
	})

	blacklist := cfg.Blacklist
	if blacklist == nil {
		blacklist = auth.NoopBlacklist{}
	}
	validator := auth.NewValidator(cfg.Tokens, blacklist)

	// Initialize repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	projectRepo := repository.NewProjectRepository(cfg.DB)
	memberRepo := repository.NewMemberRepository(cfg.DB)
	statusRepo := repository.NewStatusRepository(cfg.DB)
	labelRepo := repository.NewLabelRepository(cfg.DB)
	taskRepo := repository.NewTaskRepository(cfg.DB)
	assigneeRepo := repository.NewAssigneeRepository(cfg.DB)
	activityRepo := repository.NewActivityRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	attachmentRepo := repository.NewAttachmentRepository(cfg.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.Tokens, validator, cfg.Logger)
	membershipService := service.NewMembershipService(projectRepo, memberRepo, userRepo, cfg.Notification, cfg.Metrics, cfg.Logger)
	projectService := service.NewProjectService(projectRepo, memberRepo, statusRepo, labelRepo, taskRepo, attachmentRepo, membershipService, cfg.S3Client, cfg.Logger)
	taskService := service.NewTaskService(taskRepo, statusRepo, labelRepo, assigneeRepo, activityRepo, attachmentRepo, memberRepo, cfg.Notification, cfg.S3Client, cfg.Metrics, cfg.Logger)
	statusService := service.NewStatusService(statusRepo, memberRepo, cfg.Logger)
	labelService := service.NewLabelService(labelRepo, memberRepo)
	commentService := service.NewCommentService(commentRepo, taskRepo, memberRepo, userRepo, cfg.Logger)
	attachmentService := service.NewAttachmentService(attachmentRepo, taskRepo, memberRepo, cfg.S3Client, cfg.Logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService, membershipService)
	memberHandler := handler.NewMemberHandler(membershipService)
	statusHandler := handler.NewStatusHandler(statusService, labelService)
	taskHandler := handler.NewTaskHandler(taskService)
	commentHandler := handler.NewCommentHandler(commentService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)

	api := r.Group(cfg.BasePath)

	// ============================================================
	// Public routes
	// ============================================================
	api.GET("/", handler.Index)
	api.POST("/register/", authHandler.Register)
	api.POST("/login/", authHandler.Login)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	protected := api.Group("")
	protected.Use(middleware.Auth(validator))
	{
		protected.POST("/logout/", authHandler.Logout)
		protected.GET("/me/", authHandler.Me)
		protected.GET("/dashboard/", projectHandler.Dashboard)

		// ============================================================
		// Project routes
		// ============================================================
		projects := protected.Group("/projects")
		{
			projects.GET("/", projectHandler.ListProjects)
			projects.POST("/create/", projectHandler.CreateProject)
			projects.GET("/:projectId/", projectHandler.GetProject)
			projects.DELETE("/:projectId/", projectHandler.DeleteProject)
			projects.GET("/:projectId/update", projectHandler.GetEditForm)
			projects.POST("/:projectId/update", projectHandler.UpdateProject)

			// Members
			projects.GET("/:projectId/members", memberHandler.ListMembers)
			projects.POST("/:projectId/members", memberHandler.AddMember)
			projects.PATCH("/:projectId/members/:memberId", memberHandler.UpdateMemberRole)
			projects.DELETE("/:projectId/members/:memberId", memberHandler.RemoveMember)
			projects.POST("/:projectId/transfer-ownership", memberHandler.TransferOwnership)

			// Statuses and labels
			projects.GET("/:projectId/statuses", statusHandler.ListStatuses)
			projects.POST("/:projectId/statuses", statusHandler.CreateStatus)
			projects.DELETE("/:projectId/statuses/:statusId", statusHandler.DeleteStatus)
			projects.GET("/:projectId/labels", statusHandler.ListLabels)
			projects.POST("/:projectId/labels", statusHandler.CreateLabel)

			// Tasks
			projects.GET("/:projectId/tasks", taskHandler.ListProjectTasks)
			projects.POST("/:projectId/tasks", taskHandler.CreateTask)
		}

		// ============================================================
		// Task routes
		// ============================================================
		tasks := protected.Group("/tasks")
		{
			tasks.GET("/", taskHandler.ListMyTasks)
			tasks.GET("/:taskId", taskHandler.GetTask)
			tasks.PUT("/:taskId", taskHandler.UpdateTask)
			tasks.DELETE("/:taskId", taskHandler.DeleteTask)

			tasks.POST("/:taskId/assignees", taskHandler.AssignUser)
			tasks.DELETE("/:taskId/assignees/:userId", taskHandler.UnassignUser)
			tasks.POST("/:taskId/labels", taskHandler.AttachLabel)
			tasks.DELETE("/:taskId/labels/:labelId", taskHandler.DetachLabel)
			tasks.GET("/:taskId/activities", taskHandler.ListActivities)

			tasks.GET("/:taskId/comments", commentHandler.GetComments)
			tasks.POST("/:taskId/comments", commentHandler.CreateComment)

			tasks.GET("/:taskId/attachments", attachmentHandler.ListAttachments)
			tasks.POST("/:taskId/attachments/presigned-url", attachmentHandler.GeneratePresignedURL)
			tasks.POST("/:taskId/attachments", attachmentHandler.CreateAttachment)
			tasks.DELETE("/:taskId/attachments/:attachmentId", attachmentHandler.DeleteAttachment)
		}
	}

	return r
}
