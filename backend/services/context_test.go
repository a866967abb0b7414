package services

import (
	"encoding/json"
	"testing"

	"stride/backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAssessmentContextOrdersResponses(t *testing.T) {
	attempt := models.AssessmentAttempt{
		ID:         uuid.New(),
		Major:      "computer_science",
		StudyLevel: "bachelor",
	}
	responses := []models.AssessmentResponse{
		{QuestionID: "q3", Value: "c"},
		{QuestionID: "q1", Value: "a"},
		{QuestionID: "q2", Value: "b"},
	}

	payload, err := BuildAssessmentContext(attempt, responses)
	require.NoError(t, err)

	var doc ContextDocument
	require.NoError(t, json.Unmarshal([]byte(payload), &doc))

	require.Len(t, doc.Responses, 3)
	assert.Equal(t, "q1", doc.Responses[0].QuestionID)
	assert.Equal(t, "q2", doc.Responses[1].QuestionID)
	assert.Equal(t, "q3", doc.Responses[2].QuestionID)
	assert.Equal(t, "computer_science", doc.Major)
	assert.Contains(t, doc.Tags, "major:computer_science")
	assert.Contains(t, doc.Tags, "level:bachelor")
}

func TestBuildAssessmentContextDerivedTags(t *testing.T) {
	slow := 90
	attempt := models.AssessmentAttempt{ID: uuid.New(), Major: "math", StudyLevel: "master"}
	responses := []models.AssessmentResponse{
		{QuestionID: "q1", Value: "a", ResponseTimeSeconds: &slow, Notes: "unsure"},
	}

	payload, err := BuildAssessmentContext(attempt, responses)
	require.NoError(t, err)

	var doc ContextDocument
	require.NoError(t, json.Unmarshal([]byte(payload), &doc))

	assert.Contains(t, doc.Tags, "deliberate")
	assert.Contains(t, doc.Tags, "annotated")
}
