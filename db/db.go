package db

import (
	"errors"
	"os"

	"uroreport-backend/models"
	"uroreport-backend/utils"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		utils.LogError(err, "Warning: Impossible to load the .env file")
		utils.LogInfo("The environment variable DB_URL must be defined in the system environment")
	}

	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		utils.LogError(nil, "Variable DB_URL non définie")
		panic("URL de base de données non configurée")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		utils.LogError(err, "Error connecting to the database")
		panic("Could not connect to the database")
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.UroReport{},
		&models.ReportImage{},
	)
	if err != nil {
		utils.LogError(err, "Error migrating database")
		panic("Could not migrate database")
	}

	utils.LogSuccess("Database connection successful")
}

// SeedDefaultAdmin crée le compte administrateur initial depuis l'environnement.
// Sans ADMIN_EMAIL / ADMIN_PASSWORD, le seed est simplement ignoré.
func SeedDefaultAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		utils.LogInfo("ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var existing models.User
	err := DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError(err, "Error checking for existing admin account")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.LogError(err, "Error hashing the admin password")
		return
	}

	admin := models.User{
		Email:    email,
		Password: string(hash),
		UserName: "admin",
		Role:     models.AdminRole,
		Enable:   true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		utils.LogError(err, "Error creating the default admin account")
		return
	}

	utils.LogSuccess("Default admin account created")
}
