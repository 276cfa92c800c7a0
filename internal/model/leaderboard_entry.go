package model

import (
	"time"
)

// LeaderboardEntry holds the best score a user has achieved on a package.
// BestScore is monotonically non-decreasing; it is only ever written through
// the repository's atomic max-upsert, never via read-then-write.
type LeaderboardEntry struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	PackageID     uint      `json:"package_id" gorm:"not null;uniqueIndex:idx_leaderboard_package_user"`
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_leaderboard_package_user"`
	BestScore     float64   `json:"best_score" gorm:"not null"`
	BestAttemptID uint      `json:"best_attempt_id" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
