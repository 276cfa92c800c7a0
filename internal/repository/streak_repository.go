package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakRepository interface {
	FindByUser(userID uint) (*model.UserStreakProfile, error)
	Upsert(profile *model.UserStreakProfile) error
}

type streakRepository struct {
	db *gorm.DB
}

func NewStreakRepository(db *gorm.DB) StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) FindByUser(userID uint) (*model.UserStreakProfile, error) {
	var profile model.UserStreakProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert writes a streak profile. Profiles loaded from the store are updated
// in place; first-time profiles insert with a conflict guard so two
// completions racing on the same new user cannot both create a row.
func (r *streakRepository) Upsert(profile *model.UserStreakProfile) error {
	if profile.ID != 0 {
		return r.db.Model(profile).
			Select("current_streak", "longest_streak", "last_active_date").
			Updates(profile).Error
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_streak", "longest_streak", "last_active_date", "updated_at"}),
	}).Create(profile).Error
}
