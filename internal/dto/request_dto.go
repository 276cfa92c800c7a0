package dto

// SubmitAttemptRequest carries the caller identity for a submission.
// The attempt ID comes from the URL path.
type SubmitAttemptRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}
