package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"social-hub/infrastructure/configuration"
	"social-hub/infrastructure/realtime"
	httpHandler "social-hub/interfaces/http"
	"social-hub/interfaces/middleware"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	socialAuthHandler httpHandler.ISocialAuthHandler,
	postHandler httpHandler.IPostHandler,
	healthHandler httpHandler.IHealthHandler,
	postHub *realtime.Hub,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	origins := configuration.C.Cors.AllowedOrigins
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)
	router.GET("/healthz", healthHandler.Healthz)

	api := router.Group("api")
	api.Use(middleware.Auth())

	api.POST("/social/auth", socialAuthHandler.Auth)
	api.POST("/social/disconnect", socialAuthHandler.Disconnect)
	api.GET("/social/connections", socialAuthHandler.ListConnections)

	api.POST("/posts", postHandler.CreatePost)
	api.GET("/posts", postHandler.ListPosts)
	api.GET("/posts/stream", postHub.Serve)

	return router
}
