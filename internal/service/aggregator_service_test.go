package service_test

import (
	"testing"
	"time"

	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/service"
)

func completedAttempt(t *testing.T, env *testEnv, pkg *model.ExamPackage, userID uint, score float64) *model.ExamAttempt {
	t.Helper()
	finished := env.now
	attempt := model.ExamAttempt{
		UserID:     userID,
		PackageID:  pkg.ID,
		Status:     model.AttemptStatusCompleted,
		StartedAt:  finished.Add(-time.Hour),
		FinishedAt: &finished,
		Score:      &score,
	}
	if err := env.db.Create(&attempt).Error; err != nil {
		t.Fatalf("seed completed attempt: %v", err)
	}
	return &attempt
}

func TestAggregatorPercentileAmongPopulation(t *testing.T) {
	env := newTestEnv(t)
	pkg := seedPackage(t, env.db, "Tryout 1", 1, nil)

	for i, score := range []float64{500, 600, 800, 900} {
		completedAttempt(t, env, pkg, uint(100+i), score)
	}
	attempt := completedAttempt(t, env, pkg, 7, 700)

	env.aggregator.Run(attempt, nil)

	stored, _ := env.attempts.FindByID(attempt.ID)
	if stored.Percentile == nil || *stored.Percentile != 50.0 {
		t.Errorf("expected percentile 50.0, got %v", stored.Percentile)
	}
}

func TestAggregatorStreakTransitions(t *testing.T) {
	env := newTestEnv(t)
	pkg := seedPackage(t, env.db, "Tryout 1", 1, nil)
	attempt := completedAttempt(t, env, pkg, 7, 800)

	// First ever completion opens a streak of 1.
	env.aggregator.Run(attempt, nil)
	profile, err := env.streaks.FindByUser(7)
	if err != nil {
		t.Fatalf("load streak: %v", err)
	}
	if profile.CurrentStreak != 1 || profile.LongestStreak != 1 {
		t.Fatalf("expected streak 1/1, got %d/%d", profile.CurrentStreak, profile.LongestStreak)
	}

	// A second completion on the same day does not double count.
	env.aggregator.Run(attempt, nil)
	profile, _ = env.streaks.FindByUser(7)
	if profile.CurrentStreak != 1 {
		t.Errorf("same-day completion must not increment, got %d", profile.CurrentStreak)
	}

	// The next calendar day extends the streak.
	env.now = env.now.AddDate(0, 0, 1)
	env.aggregator.Run(attempt, nil)
	profile, _ = env.streaks.FindByUser(7)
	if profile.CurrentStreak != 2 || profile.LongestStreak != 2 {
		t.Errorf("expected streak 2/2 after consecutive day, got %d/%d", profile.CurrentStreak, profile.LongestStreak)
	}

	// A gap resets the current streak but keeps the longest.
	env.now = env.now.AddDate(0, 0, 3)
	env.aggregator.Run(attempt, nil)
	profile, _ = env.streaks.FindByUser(7)
	if profile.CurrentStreak != 1 {
		t.Errorf("expected current streak reset to 1 after gap, got %d", profile.CurrentStreak)
	}
	if profile.LongestStreak != 2 {
		t.Errorf("longest streak must survive the reset, got %d", profile.LongestStreak)
	}
}

func TestAggregatorStreakCrossesMidnightBoundary(t *testing.T) {
	env := newTestEnv(t)
	pkg := seedPackage(t, env.db, "Tryout 1", 1, nil)
	attempt := completedAttempt(t, env, pkg, 7, 800)

	// 23:59 one day, 00:01 the next: calendar days are consecutive even
	// though the wall-clock gap is two minutes.
	env.now = time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)
	env.aggregator.Run(attempt, nil)
	env.now = time.Date(2025, 3, 15, 0, 1, 0, 0, time.UTC)
	env.aggregator.Run(attempt, nil)

	profile, err := env.streaks.FindByUser(7)
	if err != nil {
		t.Fatalf("load streak: %v", err)
	}
	if profile.CurrentStreak != 2 {
		t.Errorf("expected streak 2 across the midnight boundary, got %d", profile.CurrentStreak)
	}
}

func TestAggregatorItemStatisticsRunningAverage(t *testing.T) {
	env := newTestEnv(t)
	pkg := seedPackage(t, env.db, "Tryout 1", 1, nil)
	questionID := pkg.Questions[0].ID
	attempt := completedAttempt(t, env, pkg, 7, 800)

	verdicts := []string{
		model.CorrectnessCorrect,
		model.CorrectnessCorrect,
		model.CorrectnessIncorrect,
		model.CorrectnessUnanswered, // must not count as an exposure
	}
	for _, v := range verdicts {
		env.aggregator.Run(attempt, []service.GradedAnswer{{QuestionID: questionID, Verdict: v}})
	}

	q, err := env.questions.FindByID(questionID)
	if err != nil {
		t.Fatalf("load question: %v", err)
	}
	if q.UsageCount != 3 {
		t.Errorf("expected usage count 3, got %d", q.UsageCount)
	}
	if q.CorrectRate < 0.666 || q.CorrectRate > 0.667 {
		t.Errorf("expected correct rate ~2/3, got %v", q.CorrectRate)
	}
}

func TestAggregatorToleratesMissingScore(t *testing.T) {
	env := newTestEnv(t)
	pkg := seedPackage(t, env.db, "Tryout 1", 1, nil)
	attempt := completedAttempt(t, env, pkg, 7, 800)
	attempt.Score = nil

	// The percentile step fails and is logged; the streak step still runs.
	env.aggregator.Run(attempt, nil)

	profile, err := env.streaks.FindByUser(7)
	if err != nil {
		t.Fatalf("expected streak despite percentile failure: %v", err)
	}
	if profile.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", profile.CurrentStreak)
	}
}
