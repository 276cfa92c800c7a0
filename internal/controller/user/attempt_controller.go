package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	submissionService service.SubmissionService
	resultService     service.ResultService
}

func NewAttemptController(submissionService service.SubmissionService, resultService service.ResultService) *AttemptController {
	return &AttemptController{
		submissionService: submissionService,
		resultService:     resultService,
	}
}

// SubmitAttempt godoc
// @Summary (User) Submit an in-progress exam attempt for grading
// @Description Grades every question of the attempt's package, transitions the attempt to COMPLETED exactly once, and returns the score summary. Safe to retry: a duplicate submission gets a conflict, never a second grading.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "ID of the attempt to submit"
// @Param submission body dto.SubmitAttemptRequest true "Caller user ID"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid attempt ID or request body"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found for this user"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted or not gradable"
// @Failure 500 {object} dto.ErrorResponse "Grading failed"
// @Router /attempts/{attempt_id}/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	attemptID, err := parseUintParam(ctx, "attempt_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid attempt ID format"})
		return
	}

	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAttempt: failed to bind request body")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	log.Info().Uint("attemptID", attemptID).Uint("userID", req.UserID).Msg("Received attempt submission")

	result, err := c.submissionService.Submit(ctx.Request.Context(), attemptID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAttemptNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Attempt not found"})
		case errors.Is(err, model.ErrAlreadySubmitted):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Attempt has already been submitted"})
		case errors.Is(err, model.ErrAttemptNotGradable):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Attempt is no longer gradable"})
		default:
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("SubmitAttempt: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to submit attempt"})
		}
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetAttemptDetails godoc
// @Summary (User) Get the graded detail of an attempt
// @Description Full result view including per-answer verdicts and the percentile once the aggregator has backfilled it.
// @Tags User - Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param user_id query int true "Caller user ID"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found for this user"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetAttemptDetails(ctx *gin.Context) {
	attemptID, err := parseUintParam(ctx, "attempt_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid attempt ID format"})
		return
	}
	userID, err := parseUintQuery(ctx, "user_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid or missing user_id query parameter"})
		return
	}

	details, err := c.resultService.GetAttemptDetails(attemptID, userID)
	if err != nil {
		if errors.Is(err, model.ErrAttemptNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Attempt not found"})
			return
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("GetAttemptDetails: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve attempt"})
		return
	}
	ctx.JSON(http.StatusOK, details)
}

// GetUserAttempts godoc
// @Summary (User) List a user's attempts
// @Tags User - Attempts
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/attempts [get]
func (c *AttemptController) GetUserAttempts(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "user_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}

	attempts, err := c.resultService.GetUserAttempts(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserAttempts: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve attempts"})
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

func parseUintParam(ctx *gin.Context, name string) (uint, error) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	return uint(val), err
}

func parseUintQuery(ctx *gin.Context, name string) (uint, error) {
	val, err := strconv.ParseUint(ctx.Query(name), 10, 32)
	return uint(val), err
}
