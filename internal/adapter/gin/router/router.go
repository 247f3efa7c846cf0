package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vocalab-users/internal/adapter/gin/handler"
	"vocalab-users/internal/adapter/gin/middleware"
	grpcmiddleware "vocalab-users/internal/adapter/grpc/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter may be nil when Redis is disabled.
func SetupRouter(
	profileHandler *handler.ProfileHandler,
	rateLimiter *grpcmiddleware.RateLimiter,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Only configured proxies may set X-Forwarded-For; an empty list trusts none
	if err := router.SetTrustedProxies(rateLimiter.Config().TrustedProxies); err != nil {
		log.Warn("invalid trusted proxies, forwarding headers ignored", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	// Logger runs outermost so recovered panics are still logged with their status
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RateLimiter(rateLimiter, log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	v1 := router.Group("/v1")
	{
		profiles := v1.Group("/profiles")
		{
			profiles.POST("", profileHandler.CreateProfile)
			profiles.GET("", profileHandler.ListProfiles)
			profiles.GET("/:user_id", profileHandler.GetProfile)
			profiles.PATCH("/:user_id", profileHandler.UpdateProfile)
			profiles.DELETE("/:user_id", profileHandler.DeleteProfile)
		}
	}

	return router
}
