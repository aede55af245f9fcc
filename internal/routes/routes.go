package routes

import (
	"github.com/blognest/blognest-backend/internal/handler"
	"github.com/blognest/blognest-backend/internal/middleware"
	"github.com/blognest/blognest-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	postHandler *handler.PostHandler,
	crosspostHandler *handler.CrosspostHandler,
	credentialHandler *handler.CredentialHandler,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
) {
	api := router.Group("/api/v1")

	// Public content endpoints
	posts := api.Group("/posts")
	posts.GET("", postHandler.ListPosts)
	posts.GET("/:id", postHandler.GetPost)
	posts.GET("/:id/deliveries", crosspostHandler.GetDeliveries)
	posts.GET("/:id/crosspost/targets", crosspostHandler.ListTargets)

	// Authoring endpoints (auth required)
	authed := posts.Group("")
	authed.Use(middleware.JWTAuth(jwtManager))
	if redisClient != nil {
		// Publishing fans out to external platforms, keep it on a tight budget.
		authed.Use(middleware.RateLimitPerUser(redisClient, 30))
	}
	authed.POST("/:id/crosspost", crosspostHandler.Publish)
	authed.PUT("/:id/crosspost/targets", crosspostHandler.UpsertTarget)
	authed.DELETE("/:id/crosspost/targets/:platform", crosspostHandler.DeleteTarget)

	// Credential administration (admin only, tokens never leave masked)
	admin := api.Group("/admin/credentials")
	admin.Use(middleware.JWTAuth(jwtManager))
	admin.Use(middleware.RequireAdmin())
	admin.GET("", credentialHandler.List)
	admin.PUT("", credentialHandler.Upsert)
	admin.PATCH("/:platform", credentialHandler.SetActive)
}
