package models

import "time"

// Participation is the durable record of a user joining an action. Exactly
// one exists per (action, user) pair and it is never mutated afterwards.
type Participation struct {
	ID                  string    `json:"id"`
	ActionID            string    `json:"actionId"`
	UserID              string    `json:"userId"`
	Motivation          string    `json:"motivation"`
	SelectedTags        []string  `json:"selectedTags"`
	ResourceDescription string    `json:"resourceDescription"`
	Phone               string    `json:"phone"`
	JoinedAt            time.Time `json:"joinedAt"`
	PointIndex          int       `json:"pointIndex"`
}
