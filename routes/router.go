package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/leoverde/pulse/config"
	"github.com/leoverde/pulse/controllers"
	"github.com/leoverde/pulse/i18n"
	"github.com/leoverde/pulse/middleware"
	"github.com/leoverde/pulse/services"
	"github.com/leoverde/pulse/store"
	"github.com/leoverde/pulse/utils"
)

// Deps carries everything the HTTP layer needs, wired in main.
type Deps struct {
	Credentials *services.CredentialService
	Sessions    *services.SessionManager
	Posts       *services.PostService
	Engagement  *services.EngagementService
	Feed        *services.FeedService
	Profiles    *services.ProfileService
	Blacklist   *store.TokenBlacklist
	Translator  *i18n.Translator
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Deps) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.AccessLog(utils.Logger))
	r.Use(utils.RecoveryWithZap(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.CSRFHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Attach the session (if any) to every request; handlers decide what
	// anonymous viewers may see.
	r.Use(middleware.SessionLoader(deps.Sessions, cfg.SessionCookie))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(deps.Credentials, deps.Sessions, deps.Profiles, deps.Blacklist, deps.Translator, cfg)
	postController := controllers.NewPostController(deps.Posts, deps.Engagement, deps.Translator)
	feedController := controllers.NewFeedController(deps.Feed, deps.Translator)
	profileController := controllers.NewProfileController(deps.Profiles, deps.Translator)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/token", authController.Token)
	authGroup.GET("/status", authController.Status)
	authGroup.GET("/csrf", authController.CSRF)

	// Public reads.
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/posts/:id/comments", postController.ListComments)
	api.GET("/posts/:id/likes", postController.ListLikers)
	api.GET("/users/:id", profileController.GetByID)
	api.GET("/users/:id/posts", feedController.GetUserPosts)
	api.GET("/users/:id/stats", profileController.Stats)
	api.GET("/user/by-username/:username", profileController.GetByUsername)
	api.GET("/users/search", profileController.Search)

	// Everything below requires an authenticated caller. Session callers
	// additionally prove the CSRF token on writes; bearer callers are exempt.
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(deps.Blacklist))
	protected.Use(middleware.CSRFProtect(deps.Sessions))
	protected.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	protected.POST("/auth/logout", authController.Logout)
	protected.GET("/auth/me", authController.Me)
	protected.PATCH("/auth/profile", authController.UpdateProfile)
	protected.PUT("/auth/language", authController.Language)

	protected.GET("/feed", feedController.GetFeed)

	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/like", postController.ToggleLike)

	protected.POST("/posts/:id/comments", postController.CreateComment)
	protected.PUT("/comments/:commentId", postController.UpdateComment)
	protected.DELETE("/comments/:commentId", postController.DeleteComment)

	return r
}
