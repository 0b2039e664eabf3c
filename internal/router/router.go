package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/internal/handlers"
	"github.com/taskdeck-dev/taskdeck/internal/middleware"
	"github.com/taskdeck-dev/taskdeck/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", middleware.AuthMiddleware(), handlers.BoardSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.GET("/me/details", handlers.GetDetailedUserData)
			users.PATCH("/me/profile", handlers.UpdateUserProfile)
			users.GET("/:user_id/profile", handlers.GetUserProfile)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/by-abbrv/:abbrv", handlers.GetProjectByAbbrv)
			projects.GET("/:project_id/members", handlers.GetProjectMembers)
			projects.POST("/:project_id/members", handlers.AddMembers)
			projects.PATCH("/:project_id/title", handlers.UpdateProjectTitle)
			projects.GET("/:project_id/activity", handlers.GetProjectActivity)
			projects.GET("/:project_id/users/available", handlers.GetUsersNotInProject)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.POST("", handlers.CreateTask)
			tasks.GET("/linked", handlers.GetLinkedTasks)
			tasks.GET("/assigned", handlers.GetAssignedTasks)
			tasks.PATCH("/:task_id", handlers.UpdateTaskProperties)
			tasks.PATCH("/:task_id/assignee", handlers.UpdateTaskAssignee)
		}
	}

	return r
}
