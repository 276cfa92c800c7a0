package model

import (
	"time"
)

// UserStreakProfile tracks consecutive calendar days with at least one
// completed attempt. LastActiveDate is date-only; the time component is
// always midnight UTC.
type UserStreakProfile struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	CurrentStreak  int       `json:"current_streak" gorm:"not null;default:0"`
	LongestStreak  int       `json:"longest_streak" gorm:"not null;default:0"`
	LastActiveDate time.Time `json:"last_active_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DateOnly truncates t to midnight UTC so streak comparisons work at
// calendar-day granularity.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
