package services

import (
	"errors"
	"fmt"

	"stride/backend/models"

	"gorm.io/gorm"
)

// MaterializePlan persists a generated plan document as career plan rows for
// the user. The new plan starts Generated and active; all of its skills
// start Missing. Catalog entries are matched case-insensitively and created
// when absent. Runs in its own transaction, separate from the quiz-submit
// transaction, so a generation failure never loses the quiz record.
func MaterializePlan(db *gorm.DB, userID uint, doc *GeneratedPlan) (*models.CareerPlan, error) {
	var plan models.CareerPlan

	err := db.Transaction(func(tx *gorm.DB) error {
		plan = models.CareerPlan{
			UserID:   userID,
			Title:    doc.Title,
			Summary:  doc.Summary,
			Status:   models.PlanGenerated,
			IsActive: true,
		}
		if err := tx.Create(&plan).Error; err != nil {
			return fmt.Errorf("create plan: %w", err)
		}

		for i, genStep := range doc.Steps {
			step := models.CareerStep{
				PlanID:      plan.ID,
				Title:       genStep.Title,
				Description: genStep.Description,
				OrderIndex:  i + 1,
				Status:      "not_started",
			}
			if err := tx.Create(&step).Error; err != nil {
				return fmt.Errorf("create step: %w", err)
			}

			for _, genSkill := range genStep.Skills {
				catalogID, err := ensureCatalogSkill(tx, genSkill)
				if err != nil {
					return err
				}
				stepID := step.ID
				planSkill := models.PlanSkill{
					PlanID:  plan.ID,
					StepID:  &stepID,
					SkillID: catalogID,
					Status:  models.SkillMissing,
				}
				if err := tx.Create(&planSkill).Error; err != nil {
					return fmt.Errorf("create plan skill: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func ensureCatalogSkill(tx *gorm.DB, genSkill GeneratedSkill) (uint, error) {
	var entry models.SkillCatalog
	err := tx.Where("LOWER(name) = LOWER(?)", genSkill.Name).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = models.SkillCatalog{Name: genSkill.Name, Category: genSkill.Category}
		if err := tx.Create(&entry).Error; err != nil {
			return 0, fmt.Errorf("create catalog skill: %w", err)
		}
		return entry.ID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lookup catalog skill: %w", err)
	}
	return entry.ID, nil
}
