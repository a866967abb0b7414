package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"stride/backend/config"
	"stride/backend/models"
	"stride/backend/services"
	"stride/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssessmentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAssessmentController(db *gorm.DB, cfg *config.Config) *AssessmentController {
	return &AssessmentController{DB: db, Cfg: cfg}
}

type StartAssessmentRequest struct {
	Major      string `json:"major" validate:"required"`
	StudyLevel string `json:"study_level" validate:"required,oneof=bachelor master phd"`
}

type AssessmentResponseInput struct {
	QuestionID          string `json:"question_id" validate:"required"`
	Value               string `json:"value" validate:"required"`
	ResponseTimeSeconds *int   `json:"response_time_seconds" validate:"omitempty,min=0"`
	Notes               string `json:"notes"`
}

type BulkResponsesRequest struct {
	Responses []AssessmentResponseInput `json:"responses" validate:"required,min=1,dive"`
}

// StartAttempt godoc
// @Summary Start a new assessment attempt
// @Tags assessment
// @Accept json
// @Produce json
// @Param input body StartAssessmentRequest true "Major and study level"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /assessment/start [post]
func (asc *AssessmentController) StartAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, asc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input StartAssessmentRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	attempt := models.AssessmentAttempt{
		ID:         uuid.New(),
		UserID:     userID,
		Major:      input.Major,
		StudyLevel: input.StudyLevel,
		Status:     models.AssessmentInProgress,
	}
	if err := asc.DB.Create(&attempt).Error; err != nil {
		return utils.InternalServerError(c, "Could not start attempt")
	}

	return utils.Created(c, fiber.Map{
		"attempt_id":  attempt.ID,
		"major":       attempt.Major,
		"study_level": attempt.StudyLevel,
		"status":      attempt.Status,
	})
}

// SubmitResponse godoc
// @Summary Submit or overwrite one response on an in-progress attempt
// @Tags assessment
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param input body AssessmentResponseInput true "Response"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /assessment/attempts/{id}/responses [post]
func (asc *AssessmentController) SubmitResponse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, asc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	attempt, err := asc.ownedAttempt(c.Params("id"), userID)
	if err != nil {
		return utils.FromError(c, err)
	}
	if attempt.Status != models.AssessmentInProgress {
		return utils.Error(c, fiber.StatusConflict, "Attempt is already completed")
	}

	var input AssessmentResponseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	response, err := upsertResponse(asc.DB, attempt.ID, input)
	if err != nil {
		return utils.InternalServerError(c, "Could not save response")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"response_id": response.ID,
		"question_id": response.QuestionID,
	})
}

// BulkSubmitResponses godoc
// @Summary Submit a batch of responses atomically
// @Description Any invalid entry aborts the whole batch; no subset is applied.
// @Tags assessment
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param input body BulkResponsesRequest true "Responses"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /assessment/attempts/{id}/responses/bulk [post]
func (asc *AssessmentController) BulkSubmitResponses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, asc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	attempt, err := asc.ownedAttempt(c.Params("id"), userID)
	if err != nil {
		return utils.FromError(c, err)
	}
	if attempt.Status != models.AssessmentInProgress {
		return utils.Error(c, fiber.StatusConflict, "Attempt is already completed")
	}

	var input BulkResponsesRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	// Duplicate question ids within one batch are ambiguous (which write
	// wins?) and reject the batch before anything is applied.
	seen := make(map[string]bool, len(input.Responses))
	for _, r := range input.Responses {
		if seen[r.QuestionID] {
			return utils.BadRequest(c, "Duplicate question_id in batch: "+r.QuestionID)
		}
		seen[r.QuestionID] = true
	}

	err = asc.DB.Transaction(func(tx *gorm.DB) error {
		for _, r := range input.Responses {
			if _, err := upsertResponse(tx, attempt.ID, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not save responses")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"attempt_id": attempt.ID,
		"saved":      len(input.Responses),
	})
}

// CompleteAttempt godoc
// @Summary Complete an attempt and freeze its context snapshot
// @Tags assessment
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /assessment/attempts/{id}/complete [post]
func (asc *AssessmentController) CompleteAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, asc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	attempt, err := asc.ownedAttempt(c.Params("id"), userID)
	if err != nil {
		return utils.FromError(c, err)
	}
	if attempt.Status != models.AssessmentInProgress {
		return utils.Error(c, fiber.StatusConflict, "Attempt is already completed")
	}

	var contextID uint
	err = asc.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		err := tx.Model(&models.AssessmentAttempt{}).Where("id = ?", attempt.ID).
			Updates(map[string]interface{}{
				"status":       models.AssessmentCompleted,
				"completed_at": now,
			}).Error
		if err != nil {
			return err
		}

		var responses []models.AssessmentResponse
		if err := tx.Where("attempt_id = ?", attempt.ID).Find(&responses).Error; err != nil {
			return err
		}

		payload, err := services.BuildAssessmentContext(attempt, responses)
		if err != nil {
			return err
		}

		snapshot := models.AssessmentContext{
			AttemptID: attempt.ID,
			UserID:    userID,
			Payload:   payload,
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}
		contextID = snapshot.ID
		return nil
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not complete attempt")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"attempt_id": attempt.ID,
		"status":     models.AssessmentCompleted,
		"context_id": contextID,
	})
}

// GetContext godoc
// @Summary Get the frozen context of a completed attempt
// @Tags assessment
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /assessment/attempts/{id}/context [get]
func (asc *AssessmentController) GetContext(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, asc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	attempt, err := asc.ownedAttempt(c.Params("id"), userID)
	if err != nil {
		return utils.FromError(c, err)
	}

	// The snapshot exists only once the attempt has been completed; it is
	// returned as stored, never rebuilt.
	var snapshot models.AssessmentContext
	err = asc.DB.Where("attempt_id = ?", attempt.ID).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "Attempt has not been completed")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"attempt_id": snapshot.AttemptID,
		"created_at": snapshot.CreatedAt,
		"context":    json.RawMessage(snapshot.Payload),
	})
}

// ownedAttempt resolves an attempt id for the caller. A malformed id, a
// missing attempt and another user's attempt all look the same.
func (asc *AssessmentController) ownedAttempt(rawID string, userID uint) (models.AssessmentAttempt, error) {
	var attempt models.AssessmentAttempt

	attemptID, err := uuid.Parse(rawID)
	if err != nil {
		return attempt, utils.ErrNotFound
	}

	err = asc.DB.Where("id = ?", attemptID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && attempt.UserID != userID) {
		return attempt, utils.ErrNotFound
	}
	if err != nil {
		return attempt, err
	}
	return attempt, nil
}

func upsertResponse(tx *gorm.DB, attemptID uuid.UUID, input AssessmentResponseInput) (models.AssessmentResponse, error) {
	var response models.AssessmentResponse
	err := tx.Where("attempt_id = ? AND question_id = ?", attemptID, input.QuestionID).
		First(&response).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response = models.AssessmentResponse{
			AttemptID:           attemptID,
			QuestionID:          input.QuestionID,
			Value:               input.Value,
			ResponseTimeSeconds: input.ResponseTimeSeconds,
			Notes:               input.Notes,
		}
		return response, tx.Create(&response).Error
	}
	if err != nil {
		return response, err
	}

	// Last write wins.
	response.Value = input.Value
	response.ResponseTimeSeconds = input.ResponseTimeSeconds
	response.Notes = input.Notes
	return response, tx.Save(&response).Error
}
