package services

import (
	"encoding/json"
	"fmt"
	"sort"

	"stride/backend/models"
)

// ContextResponse is one answer inside a serialized assessment context.
type ContextResponse struct {
	QuestionID          string `json:"question_id"`
	Value               string `json:"value"`
	ResponseTimeSeconds *int   `json:"response_time_seconds,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

// ContextDocument is the read-optimized snapshot handed to the study-plan
// generator when an assessment attempt is completed.
type ContextDocument struct {
	AttemptID  string            `json:"attempt_id"`
	Major      string            `json:"major"`
	StudyLevel string            `json:"study_level"`
	Responses  []ContextResponse `json:"responses"`
	Tags       []string          `json:"tags"`
}

// BuildAssessmentContext serializes an attempt's responses plus derived tags
// into the immutable context payload. Responses are ordered by question id
// so the payload is deterministic.
func BuildAssessmentContext(attempt models.AssessmentAttempt, responses []models.AssessmentResponse) (string, error) {
	doc := ContextDocument{
		AttemptID:  attempt.ID.String(),
		Major:      attempt.Major,
		StudyLevel: attempt.StudyLevel,
		Tags:       deriveTags(attempt, responses),
	}

	sorted := make([]models.AssessmentResponse, len(responses))
	copy(sorted, responses)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].QuestionID < sorted[j].QuestionID })

	for _, r := range sorted {
		doc.Responses = append(doc.Responses, ContextResponse{
			QuestionID:          r.QuestionID,
			Value:               r.Value,
			ResponseTimeSeconds: r.ResponseTimeSeconds,
			Notes:               r.Notes,
		})
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serialize assessment context: %w", err)
	}
	return string(payload), nil
}

func deriveTags(attempt models.AssessmentAttempt, responses []models.AssessmentResponse) []string {
	tags := []string{
		"major:" + attempt.Major,
		"level:" + attempt.StudyLevel,
	}

	timed, totalSeconds, annotated := 0, 0, false
	for _, r := range responses {
		if r.ResponseTimeSeconds != nil {
			timed++
			totalSeconds += *r.ResponseTimeSeconds
		}
		if r.Notes != "" {
			annotated = true
		}
	}
	if timed > 0 && totalSeconds/timed > 60 {
		tags = append(tags, "deliberate")
	}
	if annotated {
		tags = append(tags, "annotated")
	}

	return tags
}
