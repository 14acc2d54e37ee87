package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/apperrors"
	"github.com/weiting/stellact/internal/pkg/helpers"
)

// ReplyPolicy values accepted by the comment service
const (
	ReplyPolicyOwner = "owner"
	ReplyPolicyAny   = "any"
)

// CommentService defines the interface for comment operations
type CommentService interface {
	AddComment(ctx context.Context, user *models.User, actionID string, req *dto.CommentRequest) (*dto.CommentResponse, error)
	AddReply(ctx context.Context, user *models.User, commentID string, req *dto.CommentRequest) (*dto.ReplyResponse, error)
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	actionRepo  repositories.ActionRepository
	replyPolicy string
	logger      zerolog.Logger
}

// NewCommentService creates a new CommentService. replyPolicy decides who may
// reply to a comment: ReplyPolicyOwner limits replies to the action owner and
// admins, ReplyPolicyAny opens them to every authenticated user.
func NewCommentService(actionRepo repositories.ActionRepository, replyPolicy string, logger zerolog.Logger) CommentService {
	if replyPolicy != ReplyPolicyAny {
		replyPolicy = ReplyPolicyOwner
	}
	return &commentServiceImpl{
		actionRepo:  actionRepo,
		replyPolicy: replyPolicy,
		logger:      logger,
	}
}

// AddComment appends a top-level comment to the action. The author name and
// avatar are snapshotted from the user's current profile.
func (s *commentServiceImpl) AddComment(ctx context.Context, user *models.User, actionID string, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && req.ImageURL == "" {
		return nil, apperrors.NewValidationError("A comment needs text or an image")
	}

	if _, err := s.actionRepo.GetByID(ctx, actionID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        helpers.NewID("cmt"),
		ActionID:  actionID,
		UserID:    user.ID,
		Author:    user.Name,
		Avatar:    user.Avatar,
		Text:      text,
		ImageURL:  req.ImageURL,
		CreatedAt: timeNow(),
		Replies:   []*models.Comment{},
	}

	if err := s.actionRepo.AddComment(ctx, actionID, comment); err != nil {
		s.logger.Error().Err(err).
			Str("actionID", actionID).
			Str("userID", user.ID).
			Msg("Failed to add comment")
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return &dto.CommentResponse{Comment: comment}, nil
}

// AddReply attaches a reply to a top-level comment. Replies cannot carry
// replies of their own: targeting a reply id fails as not found, which caps
// the thread depth at one.
func (s *commentServiceImpl) AddReply(ctx context.Context, user *models.User, commentID string, req *dto.CommentRequest) (*dto.ReplyResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && req.ImageURL == "" {
		return nil, apperrors.NewValidationError("A reply needs text or an image")
	}

	action, err := s.actionRepo.FindByCommentID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if s.replyPolicy == ReplyPolicyOwner && !action.CanManage(user) {
		return nil, apperrors.NewForbiddenError("Only the action owner may reply to comments")
	}

	reply := &models.Comment{
		ID:        helpers.NewID("reply"),
		ActionID:  action.ID,
		UserID:    user.ID,
		Author:    user.Name,
		Avatar:    user.Avatar,
		Text:      text,
		ImageURL:  req.ImageURL,
		ParentID:  commentID,
		CreatedAt: timeNow(),
	}

	if err := s.actionRepo.AddReply(ctx, action.ID, commentID, reply); err != nil {
		s.logger.Error().Err(err).
			Str("actionID", action.ID).
			Str("commentID", commentID).
			Msg("Failed to add reply")
		return nil, fmt.Errorf("failed to add reply: %w", err)
	}

	return &dto.ReplyResponse{Reply: reply}, nil
}
