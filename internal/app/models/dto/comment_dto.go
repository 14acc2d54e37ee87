package dto

import "github.com/weiting/stellact/internal/app/models"

// CommentRequest posts a comment or reply. At least one of text and image is
// required; the check lives in the comment service because the image may
// arrive as a multipart upload instead of a URL.
type CommentRequest struct {
	Text     string `json:"text" form:"text"`
	ImageURL string `json:"imageUrl" form:"imageUrl" binding:"omitempty,url"`
}

// CommentResponse wraps a newly created top-level comment
type CommentResponse struct {
	Comment *models.Comment `json:"comment"`
}

// ReplyResponse wraps a newly created reply
type ReplyResponse struct {
	Reply *models.Comment `json:"reply"`
}
