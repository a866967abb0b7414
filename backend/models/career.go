package models

import "time"

// PlanStatus is the lifecycle status of a career plan.
type PlanStatus string

const (
	PlanGenerated  PlanStatus = "generated"
	PlanInProgress PlanStatus = "in_progress"
	PlanCompleted  PlanStatus = "completed"
	PlanOutdated   PlanStatus = "outdated"
)

// CanTransitionTo reports whether a plan status change is legal. Outdated is
// terminal; Completed can only be superseded by a newer plan, never resumed.
func (s PlanStatus) CanTransitionTo(next PlanStatus) bool {
	switch s {
	case PlanGenerated:
		return next == PlanInProgress || next == PlanCompleted || next == PlanOutdated
	case PlanInProgress:
		return next == PlanCompleted || next == PlanOutdated
	case PlanCompleted:
		return next == PlanOutdated
	}
	return false
}

// CareerPlan is the top-level artifact generated from a quiz attempt. At most
// one plan per user is simultaneously active, not deleted and not outdated.
type CareerPlan struct {
	ID                 uint       `gorm:"primaryKey"`
	UserID             uint       `gorm:"not null;index"`
	Title              string     `gorm:"not null"`
	Summary            string     `gorm:"type:text"`
	Status             PlanStatus `gorm:"not null"`
	ProgressPercentage int        `gorm:"default:0"`
	IsActive           bool       `gorm:"default:false"`
	IsDeleted          bool       `gorm:"default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Steps              []CareerStep `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
	Skills             []PlanSkill  `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// CareerStep is an ordered phase of a plan. ProgressPercentage is derived
// from the step's skills and must always be recomputable from them.
type CareerStep struct {
	ID                 uint   `gorm:"primaryKey"`
	PlanID             uint   `gorm:"not null;index"`
	Title              string `gorm:"not null"`
	Description        string `gorm:"type:text"`
	OrderIndex         int    `gorm:"not null"`
	Status             string // informational label, not authoritative
	ProgressPercentage int    `gorm:"default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Skills             []PlanSkill `gorm:"foreignKey:StepID"`
}
