package models

import "time"

// Comment is a comment or a single-level reply on an action. Author name and
// avatar are snapshots taken at write time, so later profile edits do not
// rewrite history. Comments are immutable once created.
type Comment struct {
	ID        string     `json:"id"`
	ActionID  string     `json:"actionId"`
	UserID    string     `json:"userId"`
	Author    string     `json:"author"`
	Avatar    string     `json:"avatar,omitempty"`
	Text      string     `json:"text"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	ParentID  string     `json:"parentId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	Replies   []*Comment `json:"replies"`
}
