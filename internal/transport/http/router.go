package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/gcaccess/door-gateway/internal/token"
	"github.com/gcaccess/door-gateway/internal/transport/http/handler"
	"github.com/gcaccess/door-gateway/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	tokens *token.Issuer,
	authHandler *handler.AuthHandler,
	doorHandler *handler.DoorHandler,
	userHandler *handler.UserHandler,
	accessHandler *handler.AccessHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(tokens)

	// Open routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "alive"})
	})
	r.POST("/login", authHandler.Login)

	// Unlock requires a valid session token; the gate runs before any
	// store access.
	r.POST("/validate-password", authMW, doorHandler.Unlock)

	// Protected management routes
	users := r.Group("/users", authMW)
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Disable)
	users.POST("/:id/accesses", accessHandler.Create)
	users.GET("/:id/accesses", accessHandler.ListByUser)
	users.PUT("/:id/accesses/:day", accessHandler.Update)
	users.DELETE("/:id/accesses/:day", accessHandler.Delete)

	return r
}
