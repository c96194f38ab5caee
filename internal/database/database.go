package database

import (
	"errors"
	"strings"

	"grapebd/g2g/config"
	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&models.AuthIdentity{},
		&models.Profile{},
		&models.Variety{},
		&models.GiftRound{},
		&models.UserStock{},
		&models.Gift{},
		&models.Message{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.FcmToken{},
		&models.Notice{},
		&models.NoticeRead{},
		&models.Notification{},
	}
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(AllModels()...)
}

// SeedAdmin creates the configured admin account if it does not exist yet, or promotes
// the existing profile with that email.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	log := logging.For("seed")
	if cfg.Email == "" || cfg.Password == "" {
		log.Info("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}
	email := strings.ToLower(cfg.Email)
	var existing models.Profile
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role == domain.RoleAdmin && existing.Status == domain.ProfileStatusActive {
			return nil
		}
		log.WithField("profile_id", existing.ID).Info("promoting existing profile to admin")
		return db.Model(&existing).Updates(map[string]interface{}{
			"role":   domain.RoleAdmin,
			"status": domain.ProfileStatusActive,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		ident := &models.AuthIdentity{Email: email, PasswordHash: string(hash)}
		if err := tx.Create(ident).Error; err != nil {
			return err
		}
		p := &models.Profile{
			UserID:   ident.ID,
			FullName: cfg.FullName,
			Email:    email,
			Role:     domain.RoleAdmin,
			Status:   domain.ProfileStatusActive,
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		log.WithField("profile_id", p.ID).Info("admin account created")
		return nil
	})
}
