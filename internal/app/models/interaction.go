package models

import "time"

// InteractionType is a toggle-able per-user reaction on an action
type InteractionType string

const (
	InteractionSupport    InteractionType = "support"
	InteractionMeaningful InteractionType = "meaningful"
	InteractionInterested InteractionType = "interested"
)

// ValidInteractionType reports whether t is a known reaction type
func ValidInteractionType(t InteractionType) bool {
	switch t {
	case InteractionSupport, InteractionMeaningful, InteractionInterested:
		return true
	}
	return false
}

// Interaction records an active reaction. Existence means active; toggling
// off deletes the record rather than flipping a flag.
type Interaction struct {
	ID        string          `json:"id"`
	ActionID  string          `json:"actionId"`
	UserID    string          `json:"userId"`
	Type      InteractionType `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
}

// InteractionSummary holds per-type reaction counts for one action
type InteractionSummary struct {
	Support    int `json:"support"`
	Meaningful int `json:"meaningful"`
	Interested int `json:"interested"`
}
