package routes

import (
	"github.com/gin-gonic/gin"

	"cemetery_api/internal/controllers"
	"cemetery_api/internal/middleware"
)

func AuthRoutes(api *gin.RouterGroup, d Deps) {
	auth := &controllers.AuthController{
		Accounts: d.Stores.Accounts,
		Tokens:   d.Stores.Tokens,
		Signer:   d.Signer,
	}
	throttle := middleware.LoginRateLimit(d.Limiter, d.LoginRateLimit, d.LoginRateWindow)

	api.POST("/auth/login/", throttle, auth.Login)
	api.POST("/token-login/", throttle, auth.Login)
	api.GET("/me/", auth.Me)
}
