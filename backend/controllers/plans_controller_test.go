package controllers_test

import (
	"fmt"
	"testing"

	"stride/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// submitPlan creates a plan for the token's user and returns the plan id and
// its skill rows.
func submitPlan(t *testing.T, env *testEnv, token string) (uint, []models.PlanSkill) {
	t.Helper()

	_, body := env.request(t, "POST", "/api/career-quiz/submit", token, map[string]interface{}{
		"answers": map[string]string{"q1": "backend"},
	})
	planID := uint(data(t, body)["plan_id"].(float64))

	var skills []models.PlanSkill
	require.NoError(t, env.db.Where("plan_id = ?", planID).Find(&skills).Error)
	require.NotEmpty(t, skills)
	return planID, skills
}

func TestUpdateSkillStatusIsolatedPerOwner(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.register(t, "owner")
	otherToken := env.register(t, "intruder")

	planID, skills := submitPlan(t, env, ownerToken)

	// A valid foreign skill id never reveals the skill's data.
	resp, body := env.request(t, "PATCH",
		fmt.Sprintf("/api/career-plans/%d/skills/%d", planID, skills[0].ID), otherToken,
		map[string]string{"status": "achieved"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Nil(t, body["data"])

	var unchanged models.PlanSkill
	require.NoError(t, env.db.First(&unchanged, skills[0].ID).Error)
	assert.Equal(t, models.SkillMissing, unchanged.Status)
}

func TestUpdateSkillStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "dan")
	planID, skills := submitPlan(t, env, token)

	resp, _ := env.request(t, "PATCH",
		fmt.Sprintf("/api/career-plans/%d/skills/%d", planID, skills[0].ID), token,
		map[string]string{"status": "done"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateSkillStatusUnknownSkill(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "rob")
	planID, _ := submitPlan(t, env, token)

	resp, _ := env.request(t, "PATCH",
		fmt.Sprintf("/api/career-plans/%d/skills/%d", planID, 9999), token,
		map[string]string{"status": "achieved"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateSkillStatusCascadesInOneCall(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "ken")
	planID, skills := submitPlan(t, env, token)

	resp, body := env.request(t, "PATCH",
		fmt.Sprintf("/api/career-plans/%d/skills/%d", planID, skills[0].ID), token,
		map[string]string{"status": "in_progress"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, string(models.SkillInProgress), data(t, body)["status"])

	// Step and plan progress were recomputed in the same call.
	var step models.CareerStep
	require.NoError(t, env.db.First(&step, *skills[0].StepID).Error)
	assert.Equal(t, 25, step.ProgressPercentage) // floor((0*100 + 1*50) / 2)

	var plan models.CareerPlan
	require.NoError(t, env.db.First(&plan, planID).Error)
	assert.Equal(t, 12, plan.ProgressPercentage) // floor((25 + 0) / 2)
	assert.Equal(t, models.PlanInProgress, plan.Status)
}

func TestPlanCompletionViaSkills(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "barbara")
	planID, skills := submitPlan(t, env, token)

	for _, s := range skills {
		resp, _ := env.request(t, "PATCH",
			fmt.Sprintf("/api/career-plans/%d/skills/%d", planID, s.ID), token,
			map[string]string{"status": "achieved"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var plan models.CareerPlan
	require.NoError(t, env.db.First(&plan, planID).Error)
	assert.Equal(t, 100, plan.ProgressPercentage)
	assert.Equal(t, models.PlanCompleted, plan.Status)

	// Regressing a skill lowers progress but never reopens the plan.
	resp, _ := env.request(t, "PATCH",
		fmt.Sprintf("/api/career-plans/%d/skills/%d", planID, skills[0].ID), token,
		map[string]string{"status": "missing"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, env.db.First(&plan, planID).Error)
	assert.Less(t, plan.ProgressPercentage, 100)
	assert.Equal(t, models.PlanCompleted, plan.Status)
}

func TestDeletePlanIsSoft(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "edsger")
	planID, _ := submitPlan(t, env, token)

	resp, _ := env.request(t, "DELETE", fmt.Sprintf("/api/career-plans/%d", planID), token, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	_, body := env.request(t, "GET", "/api/career-progress/active", token, nil)
	assert.Equal(t, false, data(t, body)["has_active_plan"])

	// The row survives for history.
	var plan models.CareerPlan
	require.NoError(t, env.db.First(&plan, planID).Error)
	assert.True(t, plan.IsDeleted)
}

func TestGetPlanNotFoundForOtherUser(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.register(t, "donald")
	otherToken := env.register(t, "leslie")
	planID, _ := submitPlan(t, env, ownerToken)

	resp, _ := env.request(t, "GET", fmt.Sprintf("/api/career-plans/%d", planID), otherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
