package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/Margays/internal/model"
)

func TestGetAttemptDetailsAfterGrading(t *testing.T) {
	env := newTestEnv(t)
	pkg := seedPackage(t, env.db, "Tryout 1", 4, nil)
	attempt := seedAttempt(t, env, pkg, 7, 3, 1)
	if _, err := env.submission.Submit(context.Background(), attempt.ID, 7); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	details, err := env.results.GetAttemptDetails(attempt.ID, 7)
	if err != nil {
		t.Fatalf("get details: %v", err)
	}
	if details.Status != model.AttemptStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", details.Status)
	}
	if details.Score == nil || *details.Score != 750.0 {
		t.Errorf("expected score 750.0, got %v", details.Score)
	}
	if len(details.Answers) != 4 {
		t.Errorf("expected 4 answers, got %d", len(details.Answers))
	}
	for _, ans := range details.Answers {
		if ans.Correctness == nil {
			t.Errorf("question %d missing verdict", ans.QuestionID)
		}
	}
}

func TestGetAttemptDetailsHidesForeignAttempts(t *testing.T) {
	env := newTestEnv(t)
	pkg := seedPackage(t, env.db, "Tryout 1", 2, nil)
	attempt := seedAttempt(t, env, pkg, 7, 1, 1)

	_, err := env.results.GetAttemptDetails(attempt.ID, 8)
	if !errors.Is(err, model.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}

func TestGetLeaderboardRanksEntries(t *testing.T) {
	env := newTestEnv(t)
	pkg := seedPackage(t, env.db, "Tryout 1", 10, nil)

	// Users 7, 8, 9 score 600, 900, 300.
	for user, correct := range map[uint]int{7: 6, 8: 9, 9: 3} {
		attempt := seedAttempt(t, env, pkg, user, correct, 10-correct)
		if _, err := env.submission.Submit(context.Background(), attempt.ID, user); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	board, err := env.results.GetLeaderboard(pkg.ID)
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	if len(board.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board.Entries))
	}
	wantUsers := []uint{8, 7, 9}
	wantScores := []float64{900, 600, 300}
	for i, entry := range board.Entries {
		if entry.Rank != i+1 {
			t.Errorf("entry %d: expected rank %d, got %d", i, i+1, entry.Rank)
		}
		if entry.UserID != wantUsers[i] || entry.BestScore != wantScores[i] {
			t.Errorf("entry %d: expected user %d score %v, got user %d score %v",
				i, wantUsers[i], wantScores[i], entry.UserID, entry.BestScore)
		}
	}
}

func TestGetLeaderboardUnknownPackage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.results.GetLeaderboard(999)
	if !errors.Is(err, model.ErrPackageNotFound) {
		t.Fatalf("expected ErrPackageNotFound, got %v", err)
	}
}

func TestGetStreakWithoutProfile(t *testing.T) {
	env := newTestEnv(t)

	streak, err := env.results.GetStreak(7)
	if err != nil {
		t.Fatalf("get streak: %v", err)
	}
	if streak.UserID != 7 || streak.CurrentStreak != 0 || streak.LongestStreak != 0 {
		t.Errorf("expected zero streak, got %+v", streak)
	}
	if streak.LastActiveDate != nil {
		t.Errorf("expected nil last active date, got %v", streak.LastActiveDate)
	}
}

func TestGetUserAttemptsListsHistory(t *testing.T) {
	env := newTestEnv(t)
	pkg := seedPackage(t, env.db, "Tryout 1", 2, nil)

	first := seedAttempt(t, env, pkg, 7, 2, 0)
	if _, err := env.submission.Submit(context.Background(), first.ID, 7); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	seedAttempt(t, env, pkg, 7, 0, 0) // still in progress
	seedAttempt(t, env, pkg, 8, 1, 1) // someone else's

	attempts, err := env.results.GetUserAttempts(7)
	if err != nil {
		t.Fatalf("get attempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts for user 7, got %d", len(attempts))
	}
}
