package models

import (
	"time"
)

// Role définit les rôles possibles d'un compte du back-office
type Role string

const (
	AdminRole     Role = "ADMIN"
	ClinicianRole Role = "CLINICIAN"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email     string    `json:"email" gorm:"uniqueIndex" binding:"required,email"`
	Password  string    `json:"password,omitempty" binding:"required,min=6"`
	UserName  string    `json:"username"`
	Role      Role      `json:"role" gorm:"type:varchar(20);default:'CLINICIAN'"`
	Enable    bool      `json:"enable" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserLogin model pour la connexion
// @Description model pour la connexion d'un utilisateur
type UserLogin struct {
	Email    string `json:"email" binding:"required" example:"clinician@example.com"`
	Password string `json:"password" binding:"required" example:"Password123"`
}
