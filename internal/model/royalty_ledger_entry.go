package model

import (
	"time"
)

// RoyaltyLedgerEntry accrues credit owed to a question's author for a billing
// period. AttemptCount and Amount are monotonically increasing counters,
// incremented by exactly one attempt-credit per graded attempt that included
// the question. Period is a calendar month, "2006-01".
type RoyaltyLedgerEntry struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	AuthorUserID uint      `json:"author_user_id" gorm:"not null;uniqueIndex:idx_royalty_author_question_period"`
	QuestionID   uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_royalty_author_question_period"`
	Period       string    `json:"period" gorm:"not null;uniqueIndex:idx_royalty_author_question_period"`
	AttemptCount int64     `json:"attempt_count" gorm:"not null;default:0"`
	Amount       float64   `json:"amount" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
