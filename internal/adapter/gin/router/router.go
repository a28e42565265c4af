package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-auth-service/api"
	"user-auth-service/internal/adapter/gin/handler"
	"user-auth-service/internal/adapter/gin/middleware"
	"user-auth-service/internal/adapter/gin/pipeline"
	"user-auth-service/internal/adapter/gin/response"
	"user-auth-service/pkg/logger"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "user-auth-service"

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter and health may be nil.
func SetupRouter(
	p *pipeline.Pipeline,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	health HealthChecker,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(logger.RequestID())
	router.Use(middleware.Recovery(log, p.Responder()))
	router.Use(middleware.Logger(log))
	router.Use(rateLimiter.Middleware())

	router.GET("/health", healthHandler(health))
	router.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", api.OpenAPI)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/openapi.json"))))

	auth := router.Group("/auth")
	{
		auth.POST("/register", p.Handle(pipeline.Route{Schema: handler.RegisterSchema, Handle: authHandler.Register}))
		auth.POST("/login", p.Handle(pipeline.Route{Schema: handler.LoginSchema, Handle: authHandler.Login}))
	}
	router.GET("/me", p.Handle(pipeline.Route{RequireAuth: true, Handle: authHandler.Me}))

	users := router.Group("/user")
	{
		users.GET("", p.Handle(pipeline.Route{Handle: userHandler.ListUsers}))
		users.POST("", p.Handle(pipeline.Route{Schema: handler.CreateUserSchema, Handle: userHandler.CreateUser}))
		users.GET("/:id", p.Handle(pipeline.Route{Schema: handler.UserIDSchema, Handle: userHandler.GetUser}))
		users.PATCH("/:id", p.Handle(pipeline.Route{Schema: handler.UpdateUserSchema, Handle: userHandler.UpdateUser}))
		users.DELETE("/:id", p.Handle(pipeline.Route{Schema: handler.UserIDSchema, Handle: userHandler.DeleteUser}))
	}

	router.NoRoute(p.NotFound())
	router.NoMethod(p.NotFound())

	return router
}

func healthHandler(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health.Ping(ctx); err != nil {
				response.Write(c, http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": ServiceName,
		})
	}
}
