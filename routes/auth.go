package routes

import (
	"uroreport-backend/handlers/auth"
	"uroreport-backend/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	r.POST("/login", auth.Login)

	// La création de comptes est réservée aux administrateurs
	r.POST("/register", middleware.AdminAuth(), auth.CreateUser)
}
