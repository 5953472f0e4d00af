package main

import (
	"log"

	"github.com/aonuma/project-management-api/internal/authz"
	"github.com/aonuma/project-management-api/internal/config"
	"github.com/aonuma/project-management-api/internal/cron"
	"github.com/aonuma/project-management-api/internal/database"
	"github.com/aonuma/project-management-api/internal/handlers"
	"github.com/aonuma/project-management-api/internal/middleware"
	"github.com/aonuma/project-management-api/internal/models"
	"github.com/aonuma/project-management-api/internal/repository"
	"github.com/aonuma/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, memberRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, memberRepo, userRepo)

	// Policy evaluator
	evaluator := authz.NewEvaluator(memberRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tokenService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	memberHandler := handlers.NewProjectMemberHandler(projectService)
	taskHandler := handlers.NewProjectTaskHandler(taskService)

	// Daily cleanup of done tasks
	if _, err := cron.ScheduleCleanup(taskService); err != nil {
		log.Fatalf("Failed to schedule task cleanup: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	requireAuth := middleware.RequireAuth(tokenService)

	adminOnly := authz.Descriptor{
		AllowedRoles: []models.GlobalRole{models.GlobalRoleAdmin},
	}
	adminOrSelf := authz.Descriptor{
		AllowedRoles: []models.GlobalRole{models.GlobalRoleAdmin, models.GlobalRoleUser},
		IDParam:      "id",
	}
	projectView := authz.Descriptor{
		Resource: authz.ResourceProject,
		Scopes:   []string{authz.ScopeView},
		IDParam:  "id",
	}
	projectModify := authz.Descriptor{
		Resource: authz.ResourceProject,
		Scopes:   []string{authz.ScopeModify},
		IDParam:  "id",
	}
	projectTask := authz.Descriptor{
		Resource: authz.ResourceProject,
		Scopes:   []string{authz.ScopeTask},
		IDParam:  "id",
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// User routes
		users := api.Group("/users")
		{
			users.POST("/register", authHandler.Register)
			users.POST("/login", authHandler.Login)
			users.GET("/me", requireAuth, authHandler.GetCurrentUser)
			users.PATCH("/me", requireAuth, userHandler.UpdateMe)
			users.GET("", requireAuth, middleware.Authorize(evaluator, adminOnly), userHandler.ListUsers)
			users.GET("/:id", requireAuth, userHandler.GetUser)
			users.PATCH("/:id", requireAuth, middleware.Authorize(evaluator, adminOrSelf), userHandler.UpdateUser)
			users.DELETE("/:id", requireAuth, middleware.Authorize(evaluator, adminOnly), userHandler.DeleteUser)
		}

		// Project routes
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", middleware.Authorize(evaluator, adminOnly), projectHandler.ListProjects)
			projects.GET("/me", projectHandler.ListMyProjects)
			projects.GET("/:id", middleware.Authorize(evaluator, projectView), projectHandler.GetProject)
			projects.PATCH("/:id", middleware.Authorize(evaluator, projectModify), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.Authorize(evaluator, projectModify), projectHandler.DeleteProject)

			// Membership routes
			projects.GET("/:id/members", middleware.Authorize(evaluator, projectView), memberHandler.ListMembers)
			projects.POST("/:id/members", middleware.Authorize(evaluator, projectModify), memberHandler.AddMember)
			projects.PATCH("/:id/members/:user_id", middleware.Authorize(evaluator, projectModify), memberHandler.UpdateMember)
			projects.DELETE("/:id/members/:user_id", middleware.Authorize(evaluator, projectModify), memberHandler.RemoveMember)

			// Task routes
			projects.GET("/:id/tasks", middleware.Authorize(evaluator, projectTask), taskHandler.ListTasks)
			projects.POST("/:id/tasks", middleware.Authorize(evaluator, projectTask), taskHandler.CreateTask)
			projects.PATCH("/:id/tasks", middleware.Authorize(evaluator, projectTask), taskHandler.PatchTasks)
			projects.DELETE("/:id/tasks", middleware.Authorize(evaluator, projectTask), taskHandler.DeleteTasks)
			projects.GET("/:id/tasks/:task_id", middleware.Authorize(evaluator, projectTask), taskHandler.GetTask)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
