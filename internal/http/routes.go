package http

import (
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything RegisterRoutes wires into the router.
type Deps struct {
	Handler   *handlers.Handler
	Health    *handlers.HealthHandler
	Limiter   *middleware.RateLimiter
	TokenAuth middleware.TokenParser // nil disables bearer auth
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := d.Handler

	// Health checks and metrics (no rate limiting)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if d.Limiter != nil {
		api.Use(d.Limiter.Middleware())
	}
	api.Use(middleware.NormalizeIDs())

	api.GET("/health", d.Health.Health)

	auth := middleware.BearerAuth(d.TokenAuth)

	// Registration and login stay open so a client can obtain a token.
	api.POST("/users", h.CreateUser)
	api.POST("/users/:id/login", h.Login)

	users := api.Group("/users", auth)
	{
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	boards := api.Group("/boards", auth)
	{
		boards.GET("", h.ListBoards)
		boards.GET("/search", h.SearchBoards)
		boards.GET("/:id", h.BoardsForUser)
		boards.POST("", h.CreateBoard)
		boards.PATCH("/:id", h.UpdateBoard)
		boards.DELETE("/:id", h.DeleteBoard)

		boards.GET("/:id/members", h.ListMembers)
		boards.POST("/:id/members", h.AddMember)
		boards.DELETE("/:id/members/:userId", h.RemoveMember)
	}

	tasks := api.Group("/tasks", auth)
	{
		tasks.GET("/board/:boardId", h.TasksForBoard)
		tasks.GET("/user/:userId", h.TasksForUser)
		tasks.GET("/:id", h.GetTask)
		tasks.POST("", h.CreateTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}
