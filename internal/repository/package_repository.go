package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
)

type PackageRepository interface {
	FindByID(id uint) (*model.ExamPackage, error)
	FindByIDWithQuestions(id uint) (*model.ExamPackage, error)
}

type packageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) FindByID(id uint) (*model.ExamPackage, error) {
	var pkg model.ExamPackage
	if err := r.db.First(&pkg, id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepository) FindByIDWithQuestions(id uint) (*model.ExamPackage, error) {
	var pkg model.ExamPackage
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		Preload("Questions.Options").
		First(&pkg, id).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}
