package dto

import "github.com/weiting/stellact/internal/app/models"

// JoinActionRequest is the form a user submits when joining an action
type JoinActionRequest struct {
	Motivation          string   `json:"motivation" binding:"required"`
	SelectedTags        []string `json:"selectedTags"`
	ResourceDescription string   `json:"resourceDescription" binding:"required"`
	Phone               string   `json:"phone" binding:"required"`
}

// JoinActionResponse reports the recorded participation, the assigned shape
// point and the new participant count
type JoinActionResponse struct {
	Participation    *models.Participation `json:"participation"`
	PointIndex       int                   `json:"pointIndex"`
	ParticipantCount int                   `json:"participantCount"`
}
