package services

import (
	"fmt"
	"sync"

	"stride/backend/models"

	"gorm.io/gorm"
)

// OutdatePrior marks every Completed quiz attempt and every non-Outdated
// career plan of the user as Outdated. It must run inside the caller's
// transaction, before the new Completed attempt is written, so that readers
// never observe two Completed attempts for one user.
func OutdatePrior(tx *gorm.DB, userID uint) error {
	err := tx.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND status = ?", userID, models.QuizCompleted).
		Update("status", models.QuizOutdated).Error
	if err != nil {
		return fmt.Errorf("outdate quiz attempts: %w", err)
	}

	err = tx.Model(&models.CareerPlan{}).
		Where("user_id = ? AND status <> ?", userID, models.PlanOutdated).
		Updates(map[string]interface{}{
			"status":    models.PlanOutdated,
			"is_active": false,
		}).Error
	if err != nil {
		return fmt.Errorf("outdate career plans: %w", err)
	}

	return nil
}

// UserLocks serializes quiz submissions per user. Two concurrent submissions
// by the same user must not both observe "no Completed attempt"; across
// users there is no shared state and no contention.
type UserLocks struct {
	locks sync.Map // userID -> *sync.Mutex
}

func (ul *UserLocks) Lock(userID uint) {
	mu, _ := ul.locks.LoadOrStore(userID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

func (ul *UserLocks) Unlock(userID uint) {
	if mu, ok := ul.locks.Load(userID); ok {
		mu.(*sync.Mutex).Unlock()
	}
}
