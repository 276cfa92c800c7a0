package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttemptStatusInProgress = "IN_PROGRESS"
	AttemptStatusCompleted  = "COMPLETED"
	AttemptStatusTimedOut   = "TIMED_OUT"
	AttemptStatusAbandoned  = "ABANDONED"
)

// MaxScore is the scaled score ceiling for a fully correct attempt.
const MaxScore float64 = 1000.0

type ExamAttempt struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	PackageID uint      `json:"package_id" gorm:"not null;index"`
	Status    string    `json:"status" gorm:"not null;default:'IN_PROGRESS';index"`
	StartedAt time.Time `json:"started_at" gorm:"not null"`

	// FinishedAt, Score and Percentile stay nil until the attempt is graded;
	// Percentile is backfilled by the post-commit aggregator.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Score      *float64   `json:"score,omitempty"` // 0-1000, one decimal
	Percentile *float64   `json:"percentile,omitempty"`

	TotalCorrect    int `json:"total_correct"`
	TotalIncorrect  int `json:"total_incorrect"`
	TotalUnanswered int `json:"total_unanswered"`

	Answers   []Answer       `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Gradable reports whether the attempt is still in a claimable state.
func (a *ExamAttempt) Gradable() bool {
	return a.Status == AttemptStatusInProgress
}
