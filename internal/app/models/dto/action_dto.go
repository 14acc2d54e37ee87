package dto

import "github.com/weiting/stellact/internal/app/models"

// ActionFilterRequest carries list filters and pagination
type ActionFilterRequest struct {
	Category string
	Region   string
	Status   string
	Search   string
	Page     int
	PageSize int
}

// CreateActionRequest is the payload for creating an action
type CreateActionRequest struct {
	Name              string                    `json:"name" binding:"required"`
	Category          string                    `json:"category" binding:"required"`
	Region            string                    `json:"region"`
	Status            models.ActionStatus       `json:"status" binding:"required"`
	Summary           string                    `json:"summary" binding:"required"`
	Background        string                    `json:"background" binding:"required"`
	Goals             []string                  `json:"goals" binding:"required"`
	HowToParticipate  string                    `json:"howToParticipate" binding:"required"`
	Initiator         string                    `json:"initiator" binding:"required"`
	MaxParticipants   int                       `json:"maxParticipants" binding:"required,gt=0"`
	ParticipationTags []models.ParticipationTag `json:"participationTags" binding:"required"`
	ShapePoints       []models.ShapePoint       `json:"shapePoints" binding:"required,min=1"`
	Updates           []models.Update           `json:"updates"`
	SroiReport        *models.SroiReport        `json:"sroiReport"`
}

// UpdateActionRequest is a partial merge over an existing action. Nil fields
// are left untouched.
type UpdateActionRequest struct {
	Name              *string                    `json:"name"`
	Category          *string                    `json:"category"`
	Region            *string                    `json:"region"`
	Status            *models.ActionStatus       `json:"status"`
	Summary           *string                    `json:"summary"`
	Background        *string                    `json:"background"`
	Goals             *[]string                  `json:"goals"`
	HowToParticipate  *string                    `json:"howToParticipate"`
	Initiator         *string                    `json:"initiator"`
	MaxParticipants   *int                       `json:"maxParticipants" binding:"omitempty,gt=0"`
	ParticipationTags *[]models.ParticipationTag `json:"participationTags"`
	ShapePoints       *[]models.ShapePoint       `json:"shapePoints"`
	Updates           *[]models.Update           `json:"updates"`
	SroiReport        *models.SroiReport         `json:"sroiReport"`
}

// ActionResponse is an action together with its live interaction summary
type ActionResponse struct {
	*models.Action
	Interactions models.InteractionSummary `json:"interactions"`
}

// ActionListResponse is one page of the filtered action list
type ActionListResponse struct {
	Data     []ActionResponse `json:"data"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Total    int              `json:"total"`
}

// ActionDetailResponse is a single action with its participation records
type ActionDetailResponse struct {
	Action         ActionResponse         `json:"action"`
	Participations []models.Participation `json:"participations"`
}

// CreatedActionResponse wraps a freshly created action
type CreatedActionResponse struct {
	Action *models.Action `json:"action"`
}

// OutcomeRequest adds an entry to the outcome gallery
type OutcomeRequest struct {
	URL     string `json:"url" binding:"required"`
	Caption string `json:"caption"`
}

// OutcomeUpdateRequest edits an outcome entry; nil fields keep their value
type OutcomeUpdateRequest struct {
	URL     *string `json:"url"`
	Caption *string `json:"caption"`
}

// OutcomeResponse wraps an outcome gallery entry
type OutcomeResponse struct {
	Upload models.Upload `json:"upload"`
}

// UploadResponse is returned for raw file uploads
type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
