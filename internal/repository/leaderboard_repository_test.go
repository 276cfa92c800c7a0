package repository_test

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.ExamPackage{},
		&model.Question{},
		&model.QuestionOption{},
		&model.ExamAttempt{},
		&model.Answer{},
		&model.LeaderboardEntry{},
		&model.RoyaltyLedgerEntry{},
		&model.UserStreakProfile{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func TestUpsertBestScoreIsMonotonic(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewLeaderboardRepository(db)

	// Whatever order the attempts commit in, the surviving entry is the max.
	scores := []struct {
		score     float64
		attemptID uint
	}{
		{600, 1}, {950, 2}, {800, 3},
	}
	for _, s := range scores {
		err := repo.UpsertBestScore(db, &model.LeaderboardEntry{
			PackageID:     1,
			UserID:        7,
			BestScore:     s.score,
			BestAttemptID: s.attemptID,
		})
		if err != nil {
			t.Fatalf("upsert %v failed: %v", s.score, err)
		}
	}

	entry, err := repo.FindByPackageAndUser(1, 7)
	if err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.BestScore != 950.0 {
		t.Errorf("expected best score 950.0, got %v", entry.BestScore)
	}
	if entry.BestAttemptID != 2 {
		t.Errorf("expected best attempt 2, got %d", entry.BestAttemptID)
	}

	var count int64
	db.Model(&model.LeaderboardEntry{}).Count(&count)
	if count != 1 {
		t.Errorf("expected one row per (package,user), got %d", count)
	}
}

func TestUpsertBestScoreIgnoresEqualScore(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewLeaderboardRepository(db)

	for _, attemptID := range []uint{1, 2} {
		err := repo.UpsertBestScore(db, &model.LeaderboardEntry{
			PackageID: 1, UserID: 7, BestScore: 800, BestAttemptID: attemptID,
		})
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	// A tie does not displace the earlier best attempt.
	entry, _ := repo.FindByPackageAndUser(1, 7)
	if entry.BestAttemptID != 1 {
		t.Errorf("expected first attempt retained on tie, got %d", entry.BestAttemptID)
	}
}

func TestUpsertBestScoreKeysPerUserAndPackage(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewLeaderboardRepository(db)

	seed := []model.LeaderboardEntry{
		{PackageID: 1, UserID: 7, BestScore: 700, BestAttemptID: 1},
		{PackageID: 1, UserID: 8, BestScore: 900, BestAttemptID: 2},
		{PackageID: 2, UserID: 7, BestScore: 400, BestAttemptID: 3},
	}
	for i := range seed {
		if err := repo.UpsertBestScore(db, &seed[i]); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	entries, err := repo.FindByPackage(1)
	if err != nil {
		t.Fatalf("load package leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for package 1, got %d", len(entries))
	}
	// Sorted best first.
	if entries[0].UserID != 8 || entries[1].UserID != 7 {
		t.Errorf("expected order [8 7], got [%d %d]", entries[0].UserID, entries[1].UserID)
	}
}
