package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

const (
	CorrectnessCorrect    = "CORRECT"
	CorrectnessIncorrect  = "INCORRECT"
	CorrectnessUnanswered = "UNANSWERED"
)

type Answer struct {
	ID         uint `gorm:"primarykey" json:"id"`
	AttemptID  uint `json:"attempt_id" gorm:"not null;index:idx_answers_attempt_question,unique"`
	QuestionID uint `json:"question_id" gorm:"not null;index:idx_answers_attempt_question,unique"`

	// Exactly one submission shape is expected per answer: a single option,
	// a JSON array of option IDs, or a numeric value. All nil/empty means unanswered.
	SelectedOptionID  *uint    `json:"selected_option_id,omitempty"`
	SelectedOptionIDs string   `json:"selected_option_ids,omitempty" gorm:"type:text"` // JSON array, e.g. "[3,7]"
	NumericValue      *float64 `json:"numeric_value,omitempty"`

	// Correctness is nil until the grading transaction persists the verdict.
	Correctness *string `json:"correctness,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SelectedSet decodes the JSON option-ID array into a set. A malformed or
// empty payload yields an empty set.
func (a *Answer) SelectedSet() map[uint]struct{} {
	set := make(map[uint]struct{})
	if a.SelectedOptionIDs == "" {
		return set
	}
	var ids []uint
	if err := json.Unmarshal([]byte(a.SelectedOptionIDs), &ids); err != nil {
		return set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Unanswered reports whether the answer carries no submission at all.
func (a *Answer) Unanswered() bool {
	return a.SelectedOptionID == nil && len(a.SelectedSet()) == 0 && a.NumericValue == nil
}

// EncodeOptionIDs serializes a selected-option set for storage.
func EncodeOptionIDs(ids []uint) string {
	if len(ids) == 0 {
		return ""
	}
	b, _ := json.Marshal(ids)
	return string(b)
}
