package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GradedAnswer carries one question's verdict out of the grading transaction
// for the aggregator's statistics pass.
type GradedAnswer struct {
	QuestionID uint
	Verdict    string
}

// AggregatorService runs the best-effort work that follows a committed
// grading transaction: percentile backfill, item-difficulty statistics, the
// user streak, and the notification/email/badge fan-out. Every step is
// independent; a failing step is logged and never affects the others, and
// nothing here can roll grading back.
type AggregatorService interface {
	Run(attempt *model.ExamAttempt, graded []GradedAnswer)
}

type aggregatorService struct {
	attemptRepo   repository.AttemptRepository
	questionRepo  repository.QuestionRepository
	streakRepo    repository.StreakRepository
	notifications NotificationSink
	emails        EmailSender
	badges        BadgeEvaluator
	users         UserDirectory
	now           func() time.Time
}

func NewAggregatorService(
	attemptRepo repository.AttemptRepository,
	questionRepo repository.QuestionRepository,
	streakRepo repository.StreakRepository,
	notifications NotificationSink,
	emails EmailSender,
	badges BadgeEvaluator,
	users UserDirectory,
) AggregatorService {
	return newAggregatorWithClock(attemptRepo, questionRepo, streakRepo, notifications, emails, badges, users, time.Now)
}

// NewAggregatorServiceWithClock is test-only for deterministic streak dates.
func NewAggregatorServiceWithClock(
	attemptRepo repository.AttemptRepository,
	questionRepo repository.QuestionRepository,
	streakRepo repository.StreakRepository,
	notifications NotificationSink,
	emails EmailSender,
	badges BadgeEvaluator,
	users UserDirectory,
	now func() time.Time,
) AggregatorService {
	return newAggregatorWithClock(attemptRepo, questionRepo, streakRepo, notifications, emails, badges, users, now)
}

func newAggregatorWithClock(
	attemptRepo repository.AttemptRepository,
	questionRepo repository.QuestionRepository,
	streakRepo repository.StreakRepository,
	notifications NotificationSink,
	emails EmailSender,
	badges BadgeEvaluator,
	users UserDirectory,
	now func() time.Time,
) AggregatorService {
	return &aggregatorService{
		attemptRepo:   attemptRepo,
		questionRepo:  questionRepo,
		streakRepo:    streakRepo,
		notifications: notifications,
		emails:        emails,
		badges:        badges,
		users:         users,
		now:           now,
	}
}

// Run executes all steps concurrently and waits for them. Callers that must
// not block (the submission path) dispatch Run itself through a TaskRunner.
func (s *aggregatorService) Run(attempt *model.ExamAttempt, graded []GradedAnswer) {
	var wg sync.WaitGroup
	steps := []struct {
		name string
		fn   func() error
	}{
		{"percentile", func() error { return s.updatePercentile(attempt) }},
		{"item-statistics", func() error { return s.updateItemStatistics(graded) }},
		{"streak", func() error { return s.updateStreak(attempt.UserID) }},
		{"dispatch", func() error { return s.dispatchSideEffects(attempt) }},
	}

	for _, step := range steps {
		wg.Add(1)
		go func(name string, fn func() error) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().Interface("panic", rec).Str("step", name).Uint("attemptID", attempt.ID).Msg("Aggregator step panicked")
				}
			}()
			if err := fn(); err != nil {
				log.Error().Err(err).Str("step", name).Uint("attemptID", attempt.ID).Msg("Aggregator step failed")
			}
		}(step.name, step.fn)
	}
	wg.Wait()
}

// updatePercentile stores a point-in-time estimate against the attempts
// completed so far. Earlier attempts are never retroactively re-ranked as
// the population grows; this is a progress indicator, not a tie-breaker.
func (s *aggregatorService) updatePercentile(attempt *model.ExamAttempt) error {
	if attempt.Score == nil {
		return fmt.Errorf("attempt %d has no score", attempt.ID)
	}

	total, err := s.attemptRepo.CountCompletedByPackage(attempt.PackageID)
	if err != nil {
		return err
	}

	percentile := 100.0
	if total > 1 {
		lower, err := s.attemptRepo.CountCompletedWithLowerScore(attempt.PackageID, *attempt.Score)
		if err != nil {
			return err
		}
		percentile = float64(lower) / float64(total-1) * 100.0
	}
	return s.attemptRepo.UpdatePercentile(attempt.ID, percentile)
}

func (s *aggregatorService) updateItemStatistics(graded []GradedAnswer) error {
	for _, g := range graded {
		if g.Verdict == model.CorrectnessUnanswered {
			continue
		}
		if err := s.questionRepo.ApplyUsageStat(g.QuestionID, g.Verdict == model.CorrectnessCorrect); err != nil {
			log.Error().Err(err).Uint("questionID", g.QuestionID).Msg("Failed to update question usage statistics")
		}
	}
	return nil
}

func (s *aggregatorService) updateStreak(userID uint) error {
	today := model.DateOnly(s.now())
	yesterday := today.AddDate(0, 0, -1)

	profile, err := s.streakRepo.FindByUser(userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = &model.UserStreakProfile{
			UserID:         userID,
			CurrentStreak:  1,
			LongestStreak:  1,
			LastActiveDate: today,
		}
		return s.streakRepo.Upsert(profile)
	case err != nil:
		return err
	}

	last := model.DateOnly(profile.LastActiveDate)
	switch {
	case last.Equal(today):
		// Already counted today.
		return nil
	case last.Equal(yesterday):
		profile.CurrentStreak++
	default:
		profile.CurrentStreak = 1
	}
	if profile.CurrentStreak > profile.LongestStreak {
		profile.LongestStreak = profile.CurrentStreak
	}
	profile.LastActiveDate = today
	return s.streakRepo.Upsert(profile)
}

func (s *aggregatorService) dispatchSideEffects(attempt *model.ExamAttempt) error {
	ctx := context.Background()
	score := 0.0
	if attempt.Score != nil {
		score = *attempt.Score
	}

	notification := Notification{
		UserID: attempt.UserID,
		Kind:   NotificationKindScoreUpdate,
		Title:  "Your exam has been graded",
		Body:   fmt.Sprintf("You scored %.1f on your latest attempt.", score),
		Payload: map[string]interface{}{
			"attempt_id": attempt.ID,
			"package_id": attempt.PackageID,
			"score":      score,
		},
	}
	if err := s.notifications.Send(ctx, notification); err != nil {
		log.Error().Err(err).Uint("userID", attempt.UserID).Msg("Failed to send score notification")
	}

	address, err := s.users.EmailFor(ctx, attempt.UserID)
	if err != nil {
		log.Error().Err(err).Uint("userID", attempt.UserID).Msg("Failed to resolve user email")
	} else if address != "" {
		email := Email{
			To:       address,
			Subject:  "Your exam score is ready",
			HTMLBody: fmt.Sprintf("<p>Your attempt was graded with a score of <b>%.1f</b>.</p>", score),
		}
		if err := s.emails.Send(ctx, email); err != nil {
			log.Error().Err(err).Uint("userID", attempt.UserID).Msg("Failed to send score email")
		}
	}

	if err := s.badges.Evaluate(ctx, attempt.UserID); err != nil {
		log.Error().Err(err).Uint("userID", attempt.UserID).Msg("Badge evaluation failed")
	}
	return nil
}
