package dto

import "github.com/weiting/stellact/internal/app/models"

// InteractRequest toggles one reaction type on an action
type InteractRequest struct {
	Type string `json:"type" binding:"required"`
}

// InteractResponse carries the action's fresh counts plus the caller's full
// interested set, recomputed across every action so the client can refresh
// its bookmarked list after a single toggle
type InteractResponse struct {
	Status        string                    `json:"status"`
	Summary       models.InteractionSummary `json:"summary"`
	InterestedIDs []string                  `json:"interestedIds"`
}

// InterestedResponse lists the ids of actions the caller marked interested
type InterestedResponse struct {
	ActionIDs []string `json:"actionIds"`
}
