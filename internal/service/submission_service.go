package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/internal/cache"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SubmissionService is the entry point of the grading pipeline. Submit loads
// the attempt and its question graph, grades every question, then drives the
// completion claim and the grading transaction as one atomic unit; on commit
// it dispatches the post-commit aggregator and returns the result summary.
type SubmissionService interface {
	Submit(ctx context.Context, attemptID, callerUserID uint) (*dto.AttemptResultDTO, error)
}

type submissionService struct {
	attemptRepo     repository.AttemptRepository
	answerRepo      repository.AnswerRepository
	leaderboardRepo repository.LeaderboardRepository
	royaltyRepo     repository.RoyaltyRepository
	grader          GraderService
	aggregator      AggregatorService
	packages        *cache.PackageCache
	runner          TaskRunner
	cfg             *config.Config
	db              *gorm.DB // Transaction boundary for the grading unit
	now             func() time.Time
}

func NewSubmissionService(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	leaderboardRepo repository.LeaderboardRepository,
	royaltyRepo repository.RoyaltyRepository,
	grader GraderService,
	aggregator AggregatorService,
	packages *cache.PackageCache,
	runner TaskRunner,
	cfg *config.Config,
	db *gorm.DB,
) SubmissionService {
	return &submissionService{
		attemptRepo:     attemptRepo,
		answerRepo:      answerRepo,
		leaderboardRepo: leaderboardRepo,
		royaltyRepo:     royaltyRepo,
		grader:          grader,
		aggregator:      aggregator,
		packages:        packages,
		runner:          runner,
		cfg:             cfg,
		db:              db,
		now:             time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, attemptID, callerUserID uint) (*dto.AttemptResultDTO, error) {
	// 1. Load and authorize. A missing attempt and someone else's attempt are
	// indistinguishable to the caller; neither causes any write.
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrAttemptNotFound
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Submit: failed to load attempt")
		return nil, fmt.Errorf("load attempt %d: %w", attemptID, err)
	}
	if attempt.UserID != callerUserID {
		log.Warn().Uint("attemptID", attemptID).Uint("callerID", callerUserID).Msg("Submit: attempt owned by another user")
		return nil, model.ErrAttemptNotFound
	}

	switch attempt.Status {
	case model.AttemptStatusCompleted:
		return nil, model.ErrAlreadySubmitted
	case model.AttemptStatusTimedOut, model.AttemptStatusAbandoned:
		return nil, model.ErrAttemptNotGradable
	}

	// 2. Load the question graph and grade. Grading is pure; nothing is
	// written until the claim succeeds.
	pkg, err := s.packages.GetPackage(attempt.PackageID)
	if err != nil {
		log.Error().Err(err).Uint("packageID", attempt.PackageID).Msg("Submit: failed to load exam package")
		return nil, err
	}
	if len(pkg.Questions) == 0 {
		return nil, fmt.Errorf("package %d has no questions, attempt %d is not gradable", pkg.ID, attemptID)
	}

	answers, err := s.answerRepo.FindByAttemptID(attemptID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Submit: failed to load answers")
		return nil, fmt.Errorf("load answers for attempt %d: %w", attemptID, err)
	}
	answerByQuestion := make(map[uint]*model.Answer, len(answers))
	for i := range answers {
		answerByQuestion[answers[i].QuestionID] = &answers[i]
	}

	var totalCorrect, totalIncorrect, totalUnanswered int
	graded := make([]GradedAnswer, 0, len(pkg.Questions))
	verdictByAnswerID := make(map[uint]string)

	for i := range pkg.Questions {
		question := &pkg.Questions[i]
		answer := answerByQuestion[question.ID] // nil means never answered
		verdict := s.grader.Grade(question, answer)

		switch verdict {
		case model.CorrectnessCorrect:
			totalCorrect++
		case model.CorrectnessIncorrect:
			totalIncorrect++
		default:
			totalUnanswered++
		}
		graded = append(graded, GradedAnswer{QuestionID: question.ID, Verdict: verdict})
		if answer != nil {
			verdictByAnswerID[answer.ID] = verdict
		}
	}

	totalQuestions := len(pkg.Questions)
	score := roundToDecimal(float64(totalCorrect) / float64(totalQuestions) * model.MaxScore)

	finishedAt := s.now()
	period := finishedAt.UTC().Format("2006-01")

	// 3. Claim + dependent writes in one atomic unit. If anything fails the
	// claim rolls back too, leaving the attempt retriable.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.attemptRepo.ClaimCompletion(tx, attemptID, finishedAt, score, totalCorrect, totalIncorrect, totalUnanswered); err != nil {
			return err
		}

		for answerID, verdict := range verdictByAnswerID {
			if err := s.answerRepo.SetCorrectness(tx, answerID, verdict); err != nil {
				return fmt.Errorf("persist verdict for answer %d: %w", answerID, err)
			}
		}

		entry := model.LeaderboardEntry{
			PackageID:     attempt.PackageID,
			UserID:        attempt.UserID,
			BestScore:     score,
			BestAttemptID: attemptID,
		}
		if err := s.leaderboardRepo.UpsertBestScore(tx, &entry); err != nil {
			return fmt.Errorf("leaderboard upsert: %w", err)
		}

		for i := range pkg.Questions {
			question := &pkg.Questions[i]
			if question.AuthorUserID == nil {
				continue
			}
			if err := s.royaltyRepo.Accrue(tx, *question.AuthorUserID, question.ID, period, s.cfg.Royalty.CreditPerUse); err != nil {
				return fmt.Errorf("royalty accrual for question %d: %w", question.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadySubmitted) {
			log.Info().Uint("attemptID", attemptID).Msg("Submit: claim lost, attempt already completed")
			return nil, model.ErrAlreadySubmitted
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Submit: grading transaction failed")
		return nil, fmt.Errorf("grading transaction for attempt %d: %w", attemptID, err)
	}

	log.Info().
		Uint("attemptID", attemptID).
		Uint("userID", attempt.UserID).
		Float64("score", score).
		Int("correct", totalCorrect).
		Int("incorrect", totalIncorrect).
		Int("unanswered", totalUnanswered).
		Msg("Attempt graded")

	// 4. Post-commit aggregation, off the request path.
	gradedAttempt := *attempt
	gradedAttempt.Status = model.AttemptStatusCompleted
	gradedAttempt.Score = &score
	gradedAttempt.FinishedAt = &finishedAt
	gradedAttempt.TotalCorrect = totalCorrect
	gradedAttempt.TotalIncorrect = totalIncorrect
	gradedAttempt.TotalUnanswered = totalUnanswered
	s.runner.Go("post-commit-aggregation", func() {
		s.aggregator.Run(&gradedAttempt, graded)
	})

	return &dto.AttemptResultDTO{
		AttemptID:       attemptID,
		Score:           score,
		TotalCorrect:    totalCorrect,
		TotalIncorrect:  totalIncorrect,
		TotalUnanswered: totalUnanswered,
		TotalQuestions:  totalQuestions,
	}, nil
}

func roundToDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
