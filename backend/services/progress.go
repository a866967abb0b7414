package services

import "stride/backend/models"

// Recompute derives step and plan progress from the current skill statuses
// of a plan. It is a pure function: inputs are not mutated and callers are
// expected to persist the returned steps and plan in a single transaction.
// Running it twice on the same input yields the same output, so a retry
// after a partial failure is always safe.
func Recompute(plan models.CareerPlan, steps []models.CareerStep, skills []models.PlanSkill) ([]models.CareerStep, models.CareerPlan) {
	outSteps := make([]models.CareerStep, len(steps))
	copy(outSteps, steps)

	// Membership is taken from the skills as they are now, never from
	// cached counts, so skills moved between steps are picked up here.
	byStep := make(map[uint][]models.PlanSkill)
	for _, skill := range skills {
		if skill.StepID != nil {
			byStep[*skill.StepID] = append(byStep[*skill.StepID], skill)
		}
	}

	for i := range outSteps {
		stepSkills := byStep[outSteps[i].ID]
		if len(stepSkills) == 0 {
			// Nothing to measure; keep the previous value.
			continue
		}

		achieved, inProgress := 0, 0
		for _, skill := range stepSkills {
			switch skill.Status {
			case models.SkillAchieved:
				achieved++
			case models.SkillInProgress:
				inProgress++
			}
		}

		outSteps[i].ProgressPercentage = (achieved*100 + inProgress*50) / len(stepSkills)
		outSteps[i].Status = stepLabel(outSteps[i].ProgressPercentage)
	}

	outPlan := plan
	if len(outSteps) == 0 {
		outPlan.ProgressPercentage = 0
	} else {
		sum := 0
		for _, step := range outSteps {
			sum += step.ProgressPercentage
		}
		outPlan.ProgressPercentage = sum / len(outSteps)
	}

	// Completion and outdating are one-way: the cascade never resurrects a
	// Completed or Outdated plan.
	switch {
	case outPlan.ProgressPercentage >= 100 && outPlan.Status.CanTransitionTo(models.PlanCompleted):
		outPlan.Status = models.PlanCompleted
	case outPlan.ProgressPercentage > 0 && outPlan.ProgressPercentage < 100 &&
		outPlan.Status == models.PlanGenerated:
		outPlan.Status = models.PlanInProgress
	}

	return outSteps, outPlan
}

func stepLabel(progress int) string {
	switch {
	case progress >= 100:
		return "completed"
	case progress > 0:
		return "in_progress"
	}
	return "not_started"
}
