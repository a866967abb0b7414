package utils

import (
	"fmt"
	"stride/backend/config"
	"stride/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the Postgres connection and migrates the schema.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

// Migrate applies the schema for all models. Shared with the test setup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.SkillCatalog{},
		&models.CareerPlan{},
		&models.CareerStep{},
		&models.PlanSkill{},
		&models.QuizAttempt{},
		&models.AssessmentAttempt{},
		&models.AssessmentResponse{},
		&models.AssessmentContext{},
		&models.Task{},
		&models.Note{},
	)
}
