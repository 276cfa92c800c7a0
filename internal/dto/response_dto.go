package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// AttemptResultDTO is the summary returned by a successful submission.
type AttemptResultDTO struct {
	AttemptID       uint    `json:"attempt_id"`
	Score           float64 `json:"score"` // 0-1000, one decimal
	TotalCorrect    int     `json:"total_correct"`
	TotalIncorrect  int     `json:"total_incorrect"`
	TotalUnanswered int     `json:"total_unanswered"`
	TotalQuestions  int     `json:"total_questions"`
}

// AnswerDetailDTO exposes the graded verdict for one question of an attempt.
type AnswerDetailDTO struct {
	QuestionID        uint     `json:"question_id"`
	SelectedOptionID  *uint    `json:"selected_option_id,omitempty"`
	SelectedOptionIDs string   `json:"selected_option_ids,omitempty"`
	NumericValue      *float64 `json:"numeric_value,omitempty"`
	Correctness       *string  `json:"correctness,omitempty"`
}

// AttemptDetailDTO is the full read view of an attempt after grading.
type AttemptDetailDTO struct {
	ID              uint              `json:"id"`
	PackageID       uint              `json:"package_id"`
	Status          string            `json:"status"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      *time.Time        `json:"finished_at,omitempty"`
	Score           *float64          `json:"score,omitempty"`
	Percentile      *float64          `json:"percentile,omitempty"`
	TotalCorrect    int               `json:"total_correct"`
	TotalIncorrect  int               `json:"total_incorrect"`
	TotalUnanswered int               `json:"total_unanswered"`
	Answers         []AnswerDetailDTO `json:"answers,omitempty"`
}

type AttemptSummaryDTO struct {
	ID         uint       `json:"id"`
	PackageID  uint       `json:"package_id"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Score      *float64   `json:"score,omitempty"`
	Percentile *float64   `json:"percentile,omitempty"`
}

type LeaderboardEntryDTO struct {
	Rank          int     `json:"rank"`
	UserID        uint    `json:"user_id"`
	BestScore     float64 `json:"best_score"`
	BestAttemptID uint    `json:"best_attempt_id"`
}

type LeaderboardDTO struct {
	PackageID uint                  `json:"package_id"`
	Entries   []LeaderboardEntryDTO `json:"entries"`
}

type StreakDTO struct {
	UserID         uint       `json:"user_id"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`
}
