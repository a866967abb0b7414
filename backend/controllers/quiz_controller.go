package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"stride/backend/config"
	"stride/backend/models"
	"stride/backend/services"
	"stride/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuizController struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Generator services.PlanGenerator
	Logger    *log.Logger

	locks services.UserLocks
}

func NewQuizController(db *gorm.DB, cfg *config.Config, generator services.PlanGenerator, logger *log.Logger) *QuizController {
	return &QuizController{DB: db, Cfg: cfg, Generator: generator, Logger: logger}
}

type QuizAnswersRequest struct {
	Answers map[string]string `json:"answers"`
}

// SaveDraft godoc
// @Summary Save or overwrite the user's draft quiz answers
// @Tags career-quiz
// @Accept json
// @Produce json
// @Param input body QuizAnswersRequest true "Answer map"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /career-quiz/draft [put]
func (qc *QuizController) SaveDraft(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input QuizAnswersRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if len(input.Answers) == 0 {
		return utils.BadRequest(c, "Answers must not be empty")
	}

	snapshot, err := json.Marshal(input.Answers)
	if err != nil {
		return utils.BadRequest(c, "Answers are not serializable")
	}

	// A user has a single draft; repeated saves overwrite it in place.
	var draft models.QuizAttempt
	err = qc.DB.Where("user_id = ? AND status = ?", userID, models.QuizDraft).First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		draft = models.QuizAttempt{
			UserID:          userID,
			AnswersSnapshot: string(snapshot),
			Status:          models.QuizDraft,
		}
		if err := qc.DB.Create(&draft).Error; err != nil {
			return utils.InternalServerError(c, "Could not save draft")
		}
	} else if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	} else {
		draft.AnswersSnapshot = string(snapshot)
		if err := qc.DB.Save(&draft).Error; err != nil {
			return utils.InternalServerError(c, "Could not save draft")
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"attempt_id": draft.ID,
		"status":     draft.Status,
	})
}

// SubmitQuiz godoc
// @Summary Submit quiz answers and generate a new career plan
// @Description Outdates all prior completed attempts and live plans, records
// the new attempt, then asks the plan generator for a fresh plan. A generator
// failure still keeps the recorded attempt.
// @Tags career-quiz
// @Accept json
// @Produce json
// @Param input body QuizAnswersRequest true "Answer map (optional when a draft exists)"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /career-quiz/submit [post]
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input QuizAnswersRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	// Submissions by the same user are serialized so two of them cannot
	// both pass the outdating step and leave two Completed attempts.
	qc.locks.Lock(userID)
	defer qc.locks.Unlock(userID)

	var attempt models.QuizAttempt
	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := services.OutdatePrior(tx, userID); err != nil {
			return err
		}

		now := time.Now()

		// An existing draft is promoted in place; otherwise a fresh
		// attempt is created from the submitted answers.
		err := tx.Where("user_id = ? AND status = ?", userID, models.QuizDraft).First(&attempt).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if len(input.Answers) == 0 {
				return utils.ErrInvalidInput
			}
			snapshot, merr := json.Marshal(input.Answers)
			if merr != nil {
				return utils.ErrInvalidInput
			}
			attempt = models.QuizAttempt{
				UserID:          userID,
				AnswersSnapshot: string(snapshot),
				Status:          models.QuizCompleted,
				SubmittedAt:     &now,
			}
			return tx.Create(&attempt).Error
		case err != nil:
			return err
		}

		if !attempt.Status.CanTransitionTo(models.QuizCompleted) {
			return utils.ErrInvalidState
		}
		if len(input.Answers) > 0 {
			snapshot, merr := json.Marshal(input.Answers)
			if merr != nil {
				return utils.ErrInvalidInput
			}
			attempt.AnswersSnapshot = string(snapshot)
		}
		attempt.Status = models.QuizCompleted
		attempt.SubmittedAt = &now
		return tx.Save(&attempt).Error
	})
	if errors.Is(err, utils.ErrInvalidInput) {
		return utils.BadRequest(c, "Answers must not be empty")
	}
	if err != nil {
		return utils.FromError(c, err)
	}

	// Plan generation is a best-effort follow-up: the committed attempt is
	// never rolled back when the generator fails.
	plan, genErr := qc.generatePlan(userID, attempt)
	if genErr != nil {
		qc.Logger.Printf("plan generation failed for user %d: %v", userID, genErr)
		return utils.Success(c, fiber.StatusCreated, fiber.Map{
			"quiz_attempt_id": attempt.ID,
			"plan_generated":  false,
			"plan_error":      "Plan generation is temporarily unavailable. Your answers were recorded; retry generation later.",
		})
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"quiz_attempt_id": attempt.ID,
		"plan_generated":  true,
		"plan_id":         plan.ID,
	})
}

// RetryGeneration godoc
// @Summary Retry plan generation for the latest completed, plan-less attempt
// @Tags career-quiz
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /career-quiz/retry-generation [post]
func (qc *QuizController) RetryGeneration(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	qc.locks.Lock(userID)
	defer qc.locks.Unlock(userID)

	var attempt models.QuizAttempt
	err = qc.DB.Where("user_id = ? AND status = ?", userID, models.QuizCompleted).
		Order("id DESC").First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "No completed quiz attempt to generate from")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	// Idempotence guard: one live plan per lineage, so retrying after a
	// success is rejected instead of stacking Generated plans.
	var livePlans int64
	qc.DB.Model(&models.CareerPlan{}).
		Where("user_id = ? AND status <> ? AND is_deleted = ?", userID, models.PlanOutdated, false).
		Count(&livePlans)
	if livePlans > 0 {
		return utils.Error(c, fiber.StatusConflict, "A live plan already exists for the latest attempt")
	}

	plan, genErr := qc.generatePlan(userID, attempt)
	if genErr != nil {
		return utils.FromError(c, genErr)
	}

	return utils.Created(c, fiber.Map{
		"quiz_attempt_id": attempt.ID,
		"plan_id":         plan.ID,
	})
}

// GetAttempts godoc
// @Summary List the user's quiz attempt history, newest first
// @Tags career-quiz
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /career-quiz/attempts [get]
func (qc *QuizController) GetAttempts(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var attempts []models.QuizAttempt
	if err := qc.DB.Where("user_id = ?", userID).Order("id DESC").Find(&attempts).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(attempts))
	for _, a := range attempts {
		result = append(result, fiber.Map{
			"id":           a.ID,
			"status":       a.Status,
			"created_at":   a.CreatedAt,
			"submitted_at": a.SubmittedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

func (qc *QuizController) generatePlan(userID uint, attempt models.QuizAttempt) (*models.CareerPlan, error) {
	var answers map[string]string
	if err := json.Unmarshal([]byte(attempt.AnswersSnapshot), &answers); err != nil {
		return nil, utils.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(context.Background(), qc.Cfg.PlanGenTimeout)
	defer cancel()

	doc, err := qc.Generator.GeneratePlan(ctx, answers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, utils.ErrDependencyUnavailable
		}
		return nil, err
	}

	return services.MaterializePlan(qc.DB, userID, doc)
}
