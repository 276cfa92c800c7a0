package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByID(id uint) (*model.Question, error)
	FindByPackageID(packageID uint) ([]model.Question, error)
	// ApplyUsageStat folds one graded answer into the running correct-rate
	// as a single UPDATE expression, so concurrent attempts never lose an
	// increment: newRate = (rate*count + delta) / (count+1).
	ApplyUsageStat(questionID uint, correct bool) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.Preload("Options").First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByPackageID(packageID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Preload("Options").Where("package_id = ?", packageID).Order("position ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) ApplyUsageStat(questionID uint, correct bool) error {
	delta := 0.0
	if correct {
		delta = 1.0
	}
	return r.db.Model(&model.Question{}).
		Where("id = ?", questionID).
		Updates(map[string]interface{}{
			"correct_rate": gorm.Expr("(correct_rate * usage_count + ?) / (usage_count + 1)", delta),
			"usage_count":  gorm.Expr("usage_count + 1"),
		}).Error
}
