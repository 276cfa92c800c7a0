package repository

import (
	"time"

	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.ExamAttempt) error
	FindByID(id uint) (*model.ExamAttempt, error)
	FindByIDWithAnswers(id uint) (*model.ExamAttempt, error)
	FindAllByUser(userID uint) ([]model.ExamAttempt, error)
	// ClaimCompletion performs the atomic IN_PROGRESS -> COMPLETED transition
	// on the given transaction handle. It returns model.ErrAlreadySubmitted
	// when the attempt was not in progress, i.e. another caller won the claim.
	ClaimCompletion(tx *gorm.DB, attemptID uint, finishedAt time.Time, score float64, correct, incorrect, unanswered int) error
	UpdatePercentile(attemptID uint, percentile float64) error
	CountCompletedByPackage(packageID uint) (int64, error)
	CountCompletedWithLowerScore(packageID uint, score float64) (int64, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.ExamAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithAnswers(id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.db.Preload("Answers").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByUser(userID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	if err := r.db.Where("user_id = ?", userID).Order("started_at DESC").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

// ClaimCompletion is the single synchronization point of the grading path.
// The status predicate makes the update conditional; a zero row count means
// some other caller already completed the attempt and no write happened.
func (r *attemptRepository) ClaimCompletion(tx *gorm.DB, attemptID uint, finishedAt time.Time, score float64, correct, incorrect, unanswered int) error {
	res := tx.Model(&model.ExamAttempt{}).
		Where("id = ? AND status = ?", attemptID, model.AttemptStatusInProgress).
		Updates(map[string]interface{}{
			"status":           model.AttemptStatusCompleted,
			"finished_at":      finishedAt,
			"score":            score,
			"total_correct":    correct,
			"total_incorrect":  incorrect,
			"total_unanswered": unanswered,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrAlreadySubmitted
	}
	return nil
}

func (r *attemptRepository) UpdatePercentile(attemptID uint, percentile float64) error {
	return r.db.Model(&model.ExamAttempt{}).
		Where("id = ?", attemptID).
		Update("percentile", percentile).Error
}

func (r *attemptRepository) CountCompletedByPackage(packageID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ExamAttempt{}).
		Where("package_id = ? AND status = ?", packageID, model.AttemptStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *attemptRepository) CountCompletedWithLowerScore(packageID uint, score float64) (int64, error) {
	var count int64
	err := r.db.Model(&model.ExamAttempt{}).
		Where("package_id = ? AND status = ? AND score < ?", packageID, model.AttemptStatusCompleted, score).
		Count(&count).Error
	return count, err
}
