package models

import "time"

// ActionStatus represents the lifecycle state of an action
type ActionStatus string

const (
	StatusPending    ActionStatus = "PENDING"
	StatusInProgress ActionStatus = "IN_PROGRESS"
	StatusCompleted  ActionStatus = "COMPLETED"
)

// ValidStatus reports whether s is one of the known action statuses
func ValidStatus(s ActionStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ShapePoint is a fixed visual anchor in the action's constellation shape.
// The point list is set at creation time and never shrinks below the highest
// assigned participant slot.
type ShapePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ParticipationTag describes one way a participant can contribute
type ParticipationTag struct {
	Title       string `json:"title,omitempty"`
	Label       string `json:"label"`
	Target      *int   `json:"target,omitempty"`
	Description string `json:"description,omitempty"`
}

// Star is a participant entry on an action, anchored to a shape point
type Star struct {
	ID         string `json:"id"`  // joining user's id
	Key        string `json:"key"` // "<userId>-<actionId>"
	PointIndex int    `json:"pointIndex"`
}

// Upload is an outcome gallery entry. Unlike comments, its caption and URL
// stay editable by the action owner.
type Upload struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Resource is a pledged contribution attached to an action
type Resource struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Provider    string `json:"provider"`
}

// Update is a dated progress note
type Update struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// SroiEntry is one input/output/outcome line of an SROI report
type SroiEntry struct {
	Name           string   `json:"name"`
	Value          string   `json:"value"`
	Amount         *float64 `json:"amount,omitempty"`
	Description    string   `json:"description,omitempty"`
	MonetizedValue *float64 `json:"monetizedValue,omitempty"`
}

// SroiReport is a self-reported impact summary. Pure display data; the ratio
// is stored as given, never recomputed.
type SroiReport struct {
	LastUpdated      string      `json:"lastUpdated"`
	CurrencyUnit     string      `json:"currencyUnit"`
	SroiRatio        float64     `json:"sroiRatio"`
	TotalImpactValue float64     `json:"totalImpactValue"`
	Inputs           []SroiEntry `json:"inputs"`
	Outputs          []SroiEntry `json:"outputs"`
	Outcomes         []SroiEntry `json:"outcomes"`
}

// Action is a community initiative users can join, react to and comment on.
// It owns its nested participants, comments, uploads and updates.
type Action struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	Region            string             `json:"region,omitempty"`
	Status            ActionStatus       `json:"status"`
	Summary           string             `json:"summary"`
	Background        string             `json:"background"`
	Goals             []string           `json:"goals"`
	HowToParticipate  string             `json:"howToParticipate"`
	Initiator         string             `json:"initiator"`
	OwnerID           string             `json:"ownerId"`
	MaxParticipants   int                `json:"maxParticipants"`
	ParticipationTags []ParticipationTag `json:"participationTags"`
	ShapePoints       []ShapePoint       `json:"shapePoints"`
	Participants      []Star             `json:"participants"`
	Comments          []*Comment         `json:"comments"`
	Updates           []Update           `json:"updates"`
	Uploads           []Upload           `json:"uploads"`
	Resources         []Resource         `json:"resources"`
	SroiReport        *SroiReport        `json:"sroiReport,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
}

// NextPointIndex picks the visual slot for the next participant: the lowest
// shape point index not already in use, or len(participants) mod N once every
// point is taken. Callers must hold the action's join lock.
func (a *Action) NextPointIndex() int {
	n := len(a.ShapePoints)
	if n == 0 {
		return 0
	}
	used := make(map[int]bool, len(a.Participants))
	for _, p := range a.Participants {
		used[p.PointIndex] = true
	}
	if len(used) < n {
		for i := 0; i < n; i++ {
			if !used[i] {
				return i
			}
		}
	}
	return len(a.Participants) % n
}

// IsFull reports whether the action reached its participant cap
func (a *Action) IsFull() bool {
	return a.MaxParticipants > 0 && len(a.Participants) >= a.MaxParticipants
}

// CanManage reports whether the user may update the action or its outcomes
func (a *Action) CanManage(u *User) bool {
	if u == nil {
		return false
	}
	return a.OwnerID == u.ID || u.Role == RoleAdmin
}

// FindComment returns the top-level comment with the given id, or nil.
// Replies are deliberately not searched: they cannot carry replies of their
// own, which caps the thread depth at one.
func (a *Action) FindComment(commentID string) *Comment {
	for _, c := range a.Comments {
		if c.ID == commentID {
			return c
		}
	}
	return nil
}
