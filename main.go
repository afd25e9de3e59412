package main

import (
	"log"

	"uroreport-backend/cache"
	"uroreport-backend/db"
	"uroreport-backend/routes"
	"uroreport-backend/utils"

	"github.com/gin-gonic/gin"
)

// @title API Uro Report Backend
// @version 1.0
// @description API de gestion des rapports d'études urodynamiques
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Entrez le JWT avec le préfixe Bearer: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	// Initialiser la base de données
	db.InitDB()
	db.SeedDefaultAdmin()

	// Cache optionnel des statistiques
	cache.InitCache()

	// Initialiser Cloudinary
	if err := utils.InitCloudinary(); err != nil {
		log.Printf("Avertissement: Initialisation de Cloudinary a échoué: %v", err)
		log.Println("Le téléchargement d'images ne fonctionnera pas correctement.")
	}

	r := routes.SetupRouter()

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Erreur lors du démarrage du serveur:", err)
	}
}
