package models

import "time"

// QuizStatus is the lifecycle status of a diagnostic quiz attempt.
type QuizStatus string

const (
	QuizDraft     QuizStatus = "draft"
	QuizCompleted QuizStatus = "completed"
	QuizOutdated  QuizStatus = "outdated"
)

// CanTransitionTo reports whether a quiz status change is legal. A draft may
// be re-saved in place; there is no way out of Outdated.
func (s QuizStatus) CanTransitionTo(next QuizStatus) bool {
	switch s {
	case QuizDraft:
		return next == QuizDraft || next == QuizCompleted
	case QuizCompleted:
		return next == QuizOutdated
	}
	return false
}

// QuizAttempt is a user's snapshot of diagnostic answers. History is
// retained: superseded attempts are marked Outdated, never deleted, so the
// at-most-one-Completed rule is enforced by the versioning policy rather
// than a uniqueness constraint.
type QuizAttempt struct {
	ID              uint       `gorm:"primaryKey"`
	UserID          uint       `gorm:"not null;index"`
	AnswersSnapshot string     `gorm:"type:text"` // serialized answer map
	Status          QuizStatus `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	SubmittedAt     *time.Time
}
