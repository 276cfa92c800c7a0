package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/service"
	"github.com/rs/zerolog/log"
)

// ProgressController serves the user-facing aggregates that the grading
// pipeline maintains: the package leaderboard and the daily streak.
type ProgressController struct {
	resultService service.ResultService
}

func NewProgressController(resultService service.ResultService) *ProgressController {
	return &ProgressController{resultService: resultService}
}

// GetLeaderboard godoc
// @Summary (User) Best scores per user for a package
// @Description Entries ordered by best score descending. Scores are monotonically non-decreasing per user.
// @Tags User - Progress
// @Produce json
// @Param package_id path int true "Exam package ID"
// @Success 200 {object} dto.LeaderboardDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid package ID format"
// @Failure 404 {object} dto.ErrorResponse "Package not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /packages/{package_id}/leaderboard [get]
func (c *ProgressController) GetLeaderboard(ctx *gin.Context) {
	packageID, err := parseUintParam(ctx, "package_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid package ID format"})
		return
	}

	leaderboard, err := c.resultService.GetLeaderboard(packageID)
	if err != nil {
		if errors.Is(err, model.ErrPackageNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Package not found"})
			return
		}
		log.Error().Err(err).Uint("packageID", packageID).Msg("GetLeaderboard: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve leaderboard"})
		return
	}
	ctx.JSON(http.StatusOK, leaderboard)
}

// GetStreak godoc
// @Summary (User) Current and longest daily streak
// @Tags User - Progress
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.StreakDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/streak [get]
func (c *ProgressController) GetStreak(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "user_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}

	streak, err := c.resultService.GetStreak(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetStreak: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve streak"})
		return
	}
	ctx.JSON(http.StatusOK, streak)
}
