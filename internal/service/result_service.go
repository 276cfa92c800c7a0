package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ResultService serves the read paths around a graded attempt: the detailed
// result, a user's attempt history, the package leaderboard and the streak.
type ResultService interface {
	GetAttemptDetails(attemptID, callerUserID uint) (*dto.AttemptDetailDTO, error)
	GetUserAttempts(userID uint) ([]dto.AttemptSummaryDTO, error)
	GetLeaderboard(packageID uint) (*dto.LeaderboardDTO, error)
	GetStreak(userID uint) (*dto.StreakDTO, error)
}

type resultService struct {
	attemptRepo     repository.AttemptRepository
	leaderboardRepo repository.LeaderboardRepository
	streakRepo      repository.StreakRepository
	packageRepo     repository.PackageRepository
}

func NewResultService(
	attemptRepo repository.AttemptRepository,
	leaderboardRepo repository.LeaderboardRepository,
	streakRepo repository.StreakRepository,
	packageRepo repository.PackageRepository,
) ResultService {
	return &resultService{
		attemptRepo:     attemptRepo,
		leaderboardRepo: leaderboardRepo,
		streakRepo:      streakRepo,
		packageRepo:     packageRepo,
	}
}

func (s *resultService) GetAttemptDetails(attemptID, callerUserID uint) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithAnswers(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrAttemptNotFound
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("GetAttemptDetails: failed to load attempt")
		return nil, fmt.Errorf("load attempt %d: %w", attemptID, err)
	}
	if attempt.UserID != callerUserID {
		return nil, model.ErrAttemptNotFound
	}

	var resp dto.AttemptDetailDTO
	if err := copier.Copy(&resp, attempt); err != nil {
		log.Error().Err(err).Msg("GetAttemptDetails: failed to copy attempt to DTO")
		return nil, fmt.Errorf("prepare attempt details response: %w", err)
	}
	return &resp, nil
}

func (s *resultService) GetUserAttempts(userID uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserAttempts: failed to load attempts")
		return nil, fmt.Errorf("load attempts for user %d: %w", userID, err)
	}

	dtos := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for i := range attempts {
		var summary dto.AttemptSummaryDTO
		if err := copier.Copy(&summary, &attempts[i]); err != nil {
			log.Error().Err(err).Uint("attemptID", attempts[i].ID).Msg("GetUserAttempts: failed to copy attempt summary")
			continue
		}
		dtos = append(dtos, summary)
	}
	return dtos, nil
}

func (s *resultService) GetLeaderboard(packageID uint) (*dto.LeaderboardDTO, error) {
	if _, err := s.packageRepo.FindByID(packageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPackageNotFound
		}
		return nil, fmt.Errorf("load package %d: %w", packageID, err)
	}

	entries, err := s.leaderboardRepo.FindByPackage(packageID)
	if err != nil {
		log.Error().Err(err).Uint("packageID", packageID).Msg("GetLeaderboard: failed to load entries")
		return nil, fmt.Errorf("load leaderboard for package %d: %w", packageID, err)
	}

	resp := dto.LeaderboardDTO{
		PackageID: packageID,
		Entries:   make([]dto.LeaderboardEntryDTO, 0, len(entries)),
	}
	for i, entry := range entries {
		resp.Entries = append(resp.Entries, dto.LeaderboardEntryDTO{
			Rank:          i + 1,
			UserID:        entry.UserID,
			BestScore:     entry.BestScore,
			BestAttemptID: entry.BestAttemptID,
		})
	}
	return &resp, nil
}

func (s *resultService) GetStreak(userID uint) (*dto.StreakDTO, error) {
	profile, err := s.streakRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No completed attempt yet; report a zero streak rather than 404.
			return &dto.StreakDTO{UserID: userID}, nil
		}
		log.Error().Err(err).Uint("userID", userID).Msg("GetStreak: failed to load streak profile")
		return nil, fmt.Errorf("load streak for user %d: %w", userID, err)
	}

	lastActive := profile.LastActiveDate
	return &dto.StreakDTO{
		UserID:         userID,
		CurrentStreak:  profile.CurrentStreak,
		LongestStreak:  profile.LongestStreak,
		LastActiveDate: &lastActive,
	}, nil
}
