package models

import (
	"fmt"

	"gorm.io/gorm"
)

// SkillStatus is the achievement status of a single plan skill.
type SkillStatus string

const (
	SkillMissing    SkillStatus = "missing"
	SkillInProgress SkillStatus = "in_progress"
	SkillAchieved   SkillStatus = "achieved"
)

// ParseSkillStatus validates a client-supplied status value.
func ParseSkillStatus(s string) (SkillStatus, error) {
	switch SkillStatus(s) {
	case SkillMissing, SkillInProgress, SkillAchieved:
		return SkillStatus(s), nil
	}
	return "", fmt.Errorf("invalid skill status %q", s)
}

// SkillCatalog is the administrative reference list of canonical skills.
// Names are unique case-insensitively; entries are never edited once a
// PlanSkill references them.
type SkillCatalog struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Category string
}

func (SkillCatalog) TableName() string {
	return "skill_catalog"
}

// PlanSkill links a career plan (and optionally one of its steps) to a
// catalog skill with a mutable achievement status.
type PlanSkill struct {
	gorm.Model
	PlanID  uint  `gorm:"not null;index"`
	StepID  *uint `gorm:"index"` // nil for plan-level skills
	SkillID uint  `gorm:"not null"`
	Status  SkillStatus
}
