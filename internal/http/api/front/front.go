// Package front registers the user-facing API surface under /v0.
package front

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/uisketch/uisketch/internal/billing"
	"github.com/uisketch/uisketch/internal/config"
	"github.com/uisketch/uisketch/internal/credits"
	"github.com/uisketch/uisketch/internal/generation"
	handlers "github.com/uisketch/uisketch/internal/http/api/front/handlers"
	"github.com/uisketch/uisketch/internal/models"
	"github.com/uisketch/uisketch/internal/ratelimit"
	"github.com/uisketch/uisketch/internal/security"
)

// Deps carries the services the front surface depends on.
type Deps struct {
	DB         *gorm.DB
	JWT        config.JWTConfig
	Credits    *credits.Service
	Generation *generation.Service
	Billing    *billing.Service
	Limiter    *ratelimit.Manager
}

// RegisterFrontRoutes registers front routes, middleware, and handlers.
func RegisterFrontRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.DB == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(deps.DB)
	r.GET("/healthz", healthHandler.Healthz)

	group := r.Group("/v0")

	authHandler := handlers.NewAuthHandler(deps.DB, deps.JWT)
	group.POST("/auth/register", authHandler.Register)
	group.POST("/auth/login", authHandler.Login)

	billingHandler := handlers.NewBillingHandler(deps.Billing)
	group.POST("/billing/webhook", billingHandler.Webhook)

	authed := group.Group("")
	authed.Use(userAuthMiddleware(deps.DB, deps.JWT))
	authed.Use(rateLimitMiddleware(deps.Limiter))

	accountHandler := handlers.NewAccountHandler(deps.Credits)
	authed.GET("/me", accountHandler.Me)
	authed.GET("/me/credits", accountHandler.Credits)

	mockupHandler := handlers.NewMockupHandler(deps.Generation)
	authed.POST("/mockups", mockupHandler.Create)
	authed.GET("/mockups", mockupHandler.List)
	authed.GET("/mockups/:id", mockupHandler.Get)
	authed.GET("/mockups/:id/export", mockupHandler.Export)

	versionHandler := handlers.NewVersionHandler(deps.Generation)
	authed.POST("/versions/:id/edit", versionHandler.Edit)

	authed.POST("/billing/checkout", billingHandler.Checkout)
	authed.POST("/billing/portal", billingHandler.Portal)
	authed.POST("/billing/sync", billingHandler.Sync)
}

// userAuthMiddleware validates the bearer token and loads the account.
func userAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		userID, errJWT := security.ParseToken(jwtCfg, token, security.RoleUser)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var user models.User
		if errFind := db.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		handlers.SetCurrentUser(c, &user)
		c.Next()
	}
}

// rateLimitMiddleware throttles authenticated requests per user.
func rateLimitMiddleware(manager *ratelimit.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil {
			c.Next()
			return
		}
		user := handlers.CurrentUser(c)
		if user == nil {
			c.Next()
			return
		}
		result, errAllow := manager.Allow(c.Request.Context(), ratelimit.UserKey(user.ID))
		if errAllow != nil {
			c.Next()
			return
		}
		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
