package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ebatarlar/personal-finance/internal/config"
	"github.com/ebatarlar/personal-finance/internal/domain"
	"github.com/ebatarlar/personal-finance/internal/http/handler"
	httpmiddleware "github.com/ebatarlar/personal-finance/internal/http/middleware"
	"github.com/ebatarlar/personal-finance/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(
	cfg config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	transactionHandler *handler.TransactionHandler,
	categoryHandler *handler.CategoryHandler,
	authMiddleware *httpmiddleware.Auth,
	tiers *middleware.Tiers,
) *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", tiers.Aggressive.Handler(), authHandler.Register)
		auth.POST("/login", tiers.Aggressive.Handler(), authHandler.Login)
		auth.POST("/forgot-password", tiers.Aggressive.Handler(), authHandler.ForgotPassword)
		auth.POST("/reset-password", tiers.Aggressive.Handler(), authHandler.ResetPassword)

		auth.POST("/oauth", tiers.Normal.Handler(), authHandler.OAuthLogin)
		auth.POST("/logout", tiers.Normal.Handler(), authHandler.Logout)
		auth.POST("/verify-email", tiers.Normal.Handler(), authHandler.VerifyEmail)
		auth.POST("/send-verification-email", tiers.Normal.Handler(), authHandler.SendVerificationEmail)

		auth.POST("/refresh-token", tiers.Relaxed.Handler(), authHandler.Refresh)
	}

	users := api.Group("/users", authMiddleware.RequireBearer)
	{
		users.GET("/me", userHandler.Me)
	}

	transactions := api.Group("/transactions", authMiddleware.RequireBearer)
	{
		transactions.GET("", transactionHandler.List)
		transactions.POST("", transactionHandler.Create)
	}

	categories := api.Group("/categories")
	{
		categories.GET("/default", categoryHandler.Defaults)
		categories.GET("", authMiddleware.RequireBearer, categoryHandler.All)
		categories.POST("/custom", authMiddleware.RequireBearer, categoryHandler.AddCustom)
		categories.DELETE("/custom/:name", authMiddleware.RequireBearer, categoryHandler.RemoveCustom)
	}

	return r
}

func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("oauth_provider", func(fl validator.FieldLevel) bool {
		return domain.OAuthProvider(fl.Field().String()).Valid()
	})
}
