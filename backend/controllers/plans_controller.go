package controllers

import (
	"errors"
	"strconv"

	"stride/backend/config"
	"stride/backend/models"
	"stride/backend/services"
	"stride/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PlansController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewPlansController(db *gorm.DB, cfg *config.Config) *PlansController {
	return &PlansController{DB: db, Cfg: cfg}
}

type UpdateSkillStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateSkillStatus godoc
// @Summary Update one plan skill's status and recompute plan progress
// @Description The skill save, the cascade recomputation and the resulting
// step/plan updates commit in a single transaction.
// @Tags career-plans
// @Accept json
// @Produce json
// @Param planId path int true "Plan ID"
// @Param skillId path int true "Plan skill ID"
// @Param input body UpdateSkillStatusRequest true "New status"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /career-plans/{planId}/skills/{skillId} [patch]
func (pc *PlansController) UpdateSkillStatus(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	planID, err := strconv.Atoi(c.Params("planId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid plan ID")
	}
	skillID, err := strconv.Atoi(c.Params("skillId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid skill ID")
	}

	var input UpdateSkillStatusRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	status, err := models.ParseSkillStatus(input.Status)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var skill models.PlanSkill
	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		// Plan absent and plan owned by someone else look identical to
		// the caller.
		var plan models.CareerPlan
		err := tx.Where("id = ? AND user_id = ? AND is_deleted = ?", planID, userID, false).
			First(&plan).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound
		}
		if err != nil {
			return err
		}

		err = tx.Where("id = ? AND plan_id = ?", skillID, plan.ID).First(&skill).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound
		}
		if err != nil {
			return err
		}

		skill.Status = status
		if err := tx.Save(&skill).Error; err != nil {
			return err
		}

		return cascade(tx, plan)
	})
	if err != nil {
		return utils.FromError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"skill_id": skill.ID,
		"status":   skill.Status,
	})
}

// cascade reloads the plan's current steps and skills, recomputes progress
// and persists the result inside the given transaction.
func cascade(tx *gorm.DB, plan models.CareerPlan) error {
	var steps []models.CareerStep
	if err := tx.Where("plan_id = ?", plan.ID).Order("order_index").Find(&steps).Error; err != nil {
		return err
	}
	var skills []models.PlanSkill
	if err := tx.Where("plan_id = ?", plan.ID).Find(&skills).Error; err != nil {
		return err
	}

	updatedSteps, updatedPlan := services.Recompute(plan, steps, skills)

	for _, step := range updatedSteps {
		err := tx.Model(&models.CareerStep{}).Where("id = ?", step.ID).
			Updates(map[string]interface{}{
				"progress_percentage": step.ProgressPercentage,
				"status":              step.Status,
			}).Error
		if err != nil {
			return err
		}
	}

	return tx.Model(&models.CareerPlan{}).Where("id = ?", updatedPlan.ID).
		Updates(map[string]interface{}{
			"progress_percentage": updatedPlan.ProgressPercentage,
			"status":              updatedPlan.Status,
		}).Error
}

// GetActiveProgress godoc
// @Summary Projection of the user's current plan with per-step skill counts
// @Tags career-progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /career-progress/active [get]
func (pc *PlansController) GetActiveProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var plan models.CareerPlan
	err = pc.DB.Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Preload("Skills").
		Where("user_id = ? AND is_active = ? AND is_deleted = ? AND status <> ?",
			userID, true, false, models.PlanOutdated).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Success(c, fiber.StatusOK, fiber.Map{"has_active_plan": false})
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	steps := make([]fiber.Map, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		achieved, inProgress, missing := 0, 0, 0
		for _, skill := range plan.Skills {
			if skill.StepID == nil || *skill.StepID != step.ID {
				continue
			}
			switch skill.Status {
			case models.SkillAchieved:
				achieved++
			case models.SkillInProgress:
				inProgress++
			default:
				missing++
			}
		}
		steps = append(steps, fiber.Map{
			"id":          step.ID,
			"title":       step.Title,
			"order":       step.OrderIndex,
			"status":      step.Status,
			"progress":    step.ProgressPercentage,
			"achieved":    achieved,
			"in_progress": inProgress,
			"missing":     missing,
			"total":       achieved + inProgress + missing,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"has_active_plan": true,
		"plan": fiber.Map{
			"id":       plan.ID,
			"title":    plan.Title,
			"summary":  plan.Summary,
			"status":   plan.Status,
			"progress": plan.ProgressPercentage,
			"steps":    steps,
		},
	})
}

// GetPlans godoc
// @Summary List the user's plans, including outdated ones, newest first
// @Tags career-plans
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /career-plans [get]
func (pc *PlansController) GetPlans(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var plans []models.CareerPlan
	err = pc.DB.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("id DESC").Find(&plans).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(plans))
	for _, plan := range plans {
		result = append(result, fiber.Map{
			"id":         plan.ID,
			"title":      plan.Title,
			"status":     plan.Status,
			"progress":   plan.ProgressPercentage,
			"is_active":  plan.IsActive,
			"created_at": plan.CreatedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetPlan godoc
// @Summary Get one owned plan with its steps and skills
// @Tags career-plans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /career-plans/{id} [get]
func (pc *PlansController) GetPlan(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	planID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid plan ID")
	}

	var plan models.CareerPlan
	err = pc.DB.Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Preload("Steps.Skills").
		Where("id = ? AND user_id = ? AND is_deleted = ?", planID, userID, false).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "Plan not found")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, plan)
}

// DeletePlan godoc
// @Summary Soft-delete one owned plan
// @Tags career-plans
// @Param id path int true "Plan ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /career-plans/{id} [delete]
func (pc *PlansController) DeletePlan(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	planID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid plan ID")
	}

	// History views keep the row; the plan is only flagged.
	result := pc.DB.Model(&models.CareerPlan{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", planID, userID, false).
		Updates(map[string]interface{}{"is_deleted": true, "is_active": false})
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not delete plan")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Plan not found")
	}

	return utils.NoContent(c)
}
