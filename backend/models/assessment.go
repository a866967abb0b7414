package models

import (
	"time"

	"github.com/google/uuid"
)

// AssessmentStatus is the lifecycle status of a study-plan diagnostic
// attempt. Completed is terminal.
type AssessmentStatus string

const (
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentCompleted  AssessmentStatus = "completed"
)

// AssessmentAttempt is one pass through the study-plan questionnaire. A user
// may keep several attempts in progress at once; each is addressed by its id.
type AssessmentAttempt struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	UserID      uint             `gorm:"not null;index"`
	Major       string           `gorm:"not null"`
	StudyLevel  string           `gorm:"not null"`
	Status      AssessmentStatus `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	Responses   []AssessmentResponse `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE"`
}

// AssessmentResponse is a single answer within an attempt. At most one live
// value exists per question; resubmission overwrites.
type AssessmentResponse struct {
	ID                  uint      `gorm:"primaryKey"`
	AttemptID           uuid.UUID `gorm:"type:uuid;not null;index:idx_attempt_question,unique"`
	QuestionID          string    `gorm:"not null;index:idx_attempt_question,unique"`
	Value               string    `gorm:"type:text;not null"`
	ResponseTimeSeconds *int
	Notes               string `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AssessmentContext is the frozen snapshot materialized when an attempt is
// completed. It is written exactly once and handed to the study-plan
// generator; it is never recomputed from live responses.
type AssessmentContext struct {
	ID        uint      `gorm:"primaryKey"`
	AttemptID uuid.UUID `gorm:"type:uuid;not null;unique"`
	UserID    uint      `gorm:"not null;index"`
	Payload   string    `gorm:"type:text;not null"` // serialized responses + derived tags
	CreatedAt time.Time
}
