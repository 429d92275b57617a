package migration

import (
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lumora/memoria-backend/internal/domain"
)

// Run executes AutoMigrate for all tables and seeds the bootstrap admin
// account when the members table is empty.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Member{},
		&domain.Memorial{},
		&domain.Tribute{},
		&domain.Photo{},
		&domain.PaymentTransaction{},
	); err != nil {
		return err
	}

	var count int64
	db.Model(&domain.Member{}).Count(&count)
	if count == 0 {
		return seedAdmin(db)
	}

	return nil
}

// seedAdmin creates the initial admin from ADMIN_EMAIL / ADMIN_PASSWORD.
// Skipped when the variables are not set.
func seedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := domain.Member{
		ID:       uuid.New().String(),
		Email:    email,
		Password: string(hash),
		Name:     "Administrator",
		IsAdmin:  true,
	}
	return db.Create(&admin).Error
}
