package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuestionTypeSingleChoice   = "SINGLE_CHOICE"
	QuestionTypeMultipleChoice = "MULTIPLE_CHOICE"
	QuestionTypeTrueFalse      = "TRUE_FALSE"
	QuestionTypeNumeric        = "NUMERIC"
)

type Question struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	PackageID uint             `json:"package_id" gorm:"not null;index"`
	Prompt    string           `json:"prompt" gorm:"type:text;not null"`
	Type      string           `json:"type" gorm:"not null"` // "SINGLE_CHOICE", "MULTIPLE_CHOICE", "TRUE_FALSE", "NUMERIC"
	Position  int              `json:"position" gorm:"not null"`
	Options   []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	// NumericAnswer is the expected value for NUMERIC questions; nil otherwise.
	NumericAnswer *float64 `json:"numeric_answer,omitempty"`

	// AuthorUserID links the question to the teacher who wrote it, for royalty accrual.
	AuthorUserID *uint `json:"author_user_id,omitempty" gorm:"index"`

	// CorrectRate and UsageCount form a running item-difficulty statistic,
	// updated incrementally by the post-commit aggregator.
	CorrectRate float64 `json:"correct_rate" gorm:"not null;default:0"`
	UsageCount  int64   `json:"usage_count" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CorrectOptionIDs returns the set of option IDs marked correct.
func (q *Question) CorrectOptionIDs() map[uint]struct{} {
	correct := make(map[uint]struct{})
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct[opt.ID] = struct{}{}
		}
	}
	return correct
}

type QuestionOption struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Text       string         `json:"text" gorm:"type:text;not null"`
	IsCorrect  bool           `json:"is_correct" gorm:"not null;default:false"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
