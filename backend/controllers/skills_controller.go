package controllers

import (
	"errors"

	"stride/backend/config"
	"stride/backend/models"
	"stride/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SkillsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSkillsController(db *gorm.DB, cfg *config.Config) *SkillsController {
	return &SkillsController{DB: db, Cfg: cfg}
}

type CreateSkillRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Category string `json:"category" validate:"required"`
}

// CreateSkill godoc
// @Summary Create a skill catalog entry (admin)
// @Tags skills
// @Accept json
// @Produce json
// @Param input body CreateSkillRequest true "Skill"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/skills [post]
func (sc *SkillsController) CreateSkill(c *fiber.Ctx) error {
	var input CreateSkillRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	// Names are unique ignoring case.
	var existing models.SkillCatalog
	err := sc.DB.Where("LOWER(name) = LOWER(?)", input.Name).First(&existing).Error
	if err == nil {
		return utils.BadRequest(c, "Skill name already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}

	skill := models.SkillCatalog{Name: input.Name, Category: input.Category}
	if err := sc.DB.Create(&skill).Error; err != nil {
		return utils.InternalServerError(c, "Could not create skill")
	}

	return utils.Created(c, fiber.Map{
		"id":       skill.ID,
		"name":     skill.Name,
		"category": skill.Category,
	})
}

// GetSkills godoc
// @Summary List the skill catalog
// @Tags skills
// @Produce json
// @Param category query string false "Filter by category"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /skills [get]
func (sc *SkillsController) GetSkills(c *fiber.Ctx) error {
	query := sc.DB.Model(&models.SkillCatalog{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var skills []models.SkillCatalog
	if err := query.Order("name").Find(&skills).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(skills))
	for _, skill := range skills {
		result = append(result, fiber.Map{
			"id":       skill.ID,
			"name":     skill.Name,
			"category": skill.Category,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}
