package controllers_test

import (
	"fmt"
	"testing"

	"stride/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizSubmissionGeneratesPlan(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "ada")

	resp, body := env.request(t, "POST", "/api/career-quiz/submit", token, map[string]interface{}{
		"answers": map[string]string{"q1": "backend", "q2": "3 years"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	d := data(t, body)
	assert.Equal(t, true, d["plan_generated"])
	require.NotNil(t, d["plan_id"])

	resp, body = env.request(t, "GET", "/api/career-progress/active", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	d = data(t, body)
	require.Equal(t, true, d["has_active_plan"])
	plan := d["plan"].(map[string]interface{})
	assert.Equal(t, string(models.PlanGenerated), plan["status"])
	assert.Equal(t, float64(0), plan["progress"])
	assert.Len(t, plan["steps"].([]interface{}), 2)
}

func TestQuizLifecycleScenario(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "grace")

	// Quiz #1 -> plan A at progress 0.
	_, body := env.request(t, "POST", "/api/career-quiz/submit", token, map[string]interface{}{
		"answers": map[string]string{"q1": "data"},
	})
	d := data(t, body)
	planAID := uint(d["plan_id"].(float64))
	attempt1ID := uint(d["quiz_attempt_id"].(float64))

	// Achieve 2 of the plan's 4 skills.
	var skills []models.PlanSkill
	require.NoError(t, env.db.Where("plan_id = ?", planAID).Find(&skills).Error)
	require.Len(t, skills, 4)

	for _, s := range skills[:2] {
		resp, _ := env.request(t, "PATCH",
			fmt.Sprintf("/api/career-plans/%d/skills/%d", planAID, s.ID), token,
			map[string]string{"status": "achieved"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var planA models.CareerPlan
	require.NoError(t, env.db.First(&planA, planAID).Error)
	assert.Greater(t, planA.ProgressPercentage, 0)
	assert.Less(t, planA.ProgressPercentage, 100)
	assert.Equal(t, models.PlanInProgress, planA.Status)

	// Quiz #2 -> plan A and attempt #1 outdated, plan B fresh at 0.
	_, body = env.request(t, "POST", "/api/career-quiz/submit", token, map[string]interface{}{
		"answers": map[string]string{"q1": "systems"},
	})
	d = data(t, body)
	planBID := uint(d["plan_id"].(float64))
	require.NotEqual(t, planAID, planBID)

	require.NoError(t, env.db.First(&planA, planAID).Error)
	assert.Equal(t, models.PlanOutdated, planA.Status)
	assert.False(t, planA.IsActive)

	var attempt1 models.QuizAttempt
	require.NoError(t, env.db.First(&attempt1, attempt1ID).Error)
	assert.Equal(t, models.QuizOutdated, attempt1.Status)

	var planB models.CareerPlan
	require.NoError(t, env.db.First(&planB, planBID).Error)
	assert.Equal(t, models.PlanGenerated, planB.Status)
	assert.Equal(t, 0, planB.ProgressPercentage)

	// At most one live plan and one completed attempt per user.
	var livePlans, completedAttempts int64
	env.db.Model(&models.CareerPlan{}).
		Where("status <> ?", models.PlanOutdated).Count(&livePlans)
	env.db.Model(&models.QuizAttempt{}).
		Where("status = ?", models.QuizCompleted).Count(&completedAttempts)
	assert.Equal(t, int64(1), livePlans)
	assert.Equal(t, int64(1), completedAttempts)
}

func TestQuizSubmissionSurvivesGeneratorFailure(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "linus")
	env.gen.fail = true

	resp, body := env.request(t, "POST", "/api/career-quiz/submit", token, map[string]interface{}{
		"answers": map[string]string{"q1": "devops"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	d := data(t, body)
	assert.Equal(t, false, d["plan_generated"])
	assert.NotEmpty(t, d["plan_error"])

	// The attempt is kept even though no plan exists.
	var completedAttempts, plans int64
	env.db.Model(&models.QuizAttempt{}).
		Where("status = ?", models.QuizCompleted).Count(&completedAttempts)
	env.db.Model(&models.CareerPlan{}).Count(&plans)
	assert.Equal(t, int64(1), completedAttempts)
	assert.Equal(t, int64(0), plans)

	// Retry succeeds once the generator is back.
	env.gen.fail = false
	resp, body = env.request(t, "POST", "/api/career-quiz/retry-generation", token, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotNil(t, data(t, body)["plan_id"])

	// A second retry would stack a duplicate plan and is rejected.
	resp, _ = env.request(t, "POST", "/api/career-quiz/retry-generation", token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestQuizDraftPromotedOnSubmit(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "margaret")

	resp, body := env.request(t, "PUT", "/api/career-quiz/draft", token, map[string]interface{}{
		"answers": map[string]string{"q1": "research"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	draftID := uint(data(t, body)["attempt_id"].(float64))

	// Overwriting keeps the same identity.
	_, body = env.request(t, "PUT", "/api/career-quiz/draft", token, map[string]interface{}{
		"answers": map[string]string{"q1": "teaching"},
	})
	assert.Equal(t, draftID, uint(data(t, body)["attempt_id"].(float64)))

	// Submitting with no body answers promotes the draft in place.
	resp, body = env.request(t, "POST", "/api/career-quiz/submit", token, map[string]interface{}{})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, draftID, uint(data(t, body)["quiz_attempt_id"].(float64)))

	var attempt models.QuizAttempt
	require.NoError(t, env.db.First(&attempt, draftID).Error)
	assert.Equal(t, models.QuizCompleted, attempt.Status)
	assert.Contains(t, attempt.AnswersSnapshot, "teaching")
	assert.NotNil(t, attempt.SubmittedAt)
}

func TestQuizSubmitRequiresAnswers(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alan")

	resp, _ := env.request(t, "POST", "/api/career-quiz/submit", token, map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Nothing was written.
	var attempts int64
	env.db.Model(&models.QuizAttempt{}).Count(&attempts)
	assert.Equal(t, int64(0), attempts)
}
