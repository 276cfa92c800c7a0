package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	FindByAttemptID(attemptID uint) ([]model.Answer, error)
	// SetCorrectness persists the grading verdict on a single answer row,
	// on the given transaction handle.
	SetCorrectness(tx *gorm.DB, answerID uint, verdict string) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) FindByAttemptID(attemptID uint) ([]model.Answer, error) {
	var answers []model.Answer
	if err := r.db.Where("attempt_id = ?", attemptID).Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepository) SetCorrectness(tx *gorm.DB, answerID uint, verdict string) error {
	return tx.Model(&model.Answer{}).
		Where("id = ?", answerID).
		Update("correctness", verdict).Error
}
