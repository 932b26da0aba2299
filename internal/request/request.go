package request

import (
	"time"

	"github.com/frahmantamala/training-management/internal"
	requestDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/request"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Types a request may carry.
var Types = []string{"LEAVE", "COURSE_ENROLLMENT", "EQUIPMENT", "ACCESS", "OTHER"}

var (
	ErrRequestNotFound = internal.NewNotFoundError("Request not found", internal.ErrCodeRequestNotFound)
	ErrNotPending      = internal.NewBadRequestError("Only pending requests can be reviewed", internal.ErrCodeInvalidStatus)
	ErrOwnRequest      = internal.NewBadRequestError("You cannot review your own request", internal.ErrCodeSelfTarget)
	ErrNotReviewer     = internal.NewForbiddenError("Your role cannot review requests", internal.ErrCodeInsufficientRole)
)

type RequestResponse struct {
	ID          int64      `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	RequesterID int64      `json:"requesterId"`
	ReviewerID  *int64     `json:"reviewerId"`
	ReviewNote  *string    `json:"reviewNote"`
	ReviewedAt  *time.Time `json:"reviewedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ToResponse(r *requestDatamodel.Request) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		RequesterID: r.RequesterID,
		ReviewerID:  r.ReviewerID,
		ReviewNote:  r.ReviewNote,
		ReviewedAt:  r.ReviewedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
