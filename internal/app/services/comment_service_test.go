package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/pkg/apperrors"
)

func TestAddCommentSnapshotsAuthor(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommentService(repos.Actions, ReplyPolicyAny, zerolog.Nop())
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)

	author := newTestUser(t, repos, "alice", models.RoleUser)
	author.Avatar = "https://example.com/alice.png"

	resp, err := svc.AddComment(context.Background(), author, action.ID, &dto.CommentRequest{Text: "count me in"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Comment.Author)
	assert.Equal(t, "https://example.com/alice.png", resp.Comment.Avatar)
	assert.Equal(t, author.ID, resp.Comment.UserID)
	assert.NotNil(t, resp.Comment.Replies)

	stored, err := repos.Actions.GetByID(context.Background(), action.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, "count me in", stored.Comments[0].Text)
}

func TestAddCommentRequiresTextOrImage(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommentService(repos.Actions, ReplyPolicyAny, zerolog.Nop())
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	user := newTestUser(t, repos, "alice", models.RoleUser)

	_, err := svc.AddComment(context.Background(), user, action.ID, &dto.CommentRequest{Text: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// Image-only comments are allowed
	resp, err := svc.AddComment(context.Background(), user, action.ID, &dto.CommentRequest{ImageURL: "https://example.com/pic.jpg"})
	require.NoError(t, err)
	assert.Empty(t, resp.Comment.Text)
	assert.Equal(t, "https://example.com/pic.jpg", resp.Comment.ImageURL)
}

func TestReplyNestsUnderParent(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommentService(repos.Actions, ReplyPolicyAny, zerolog.Nop())
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	user := newTestUser(t, repos, "alice", models.RoleUser)

	comment, err := svc.AddComment(context.Background(), user, action.ID, &dto.CommentRequest{Text: "question?"})
	require.NoError(t, err)

	reply, err := svc.AddReply(context.Background(), owner, comment.Comment.ID, &dto.CommentRequest{Text: "answer"})
	require.NoError(t, err)
	assert.Equal(t, comment.Comment.ID, reply.Reply.ParentID)
	assert.Equal(t, action.ID, reply.Reply.ActionID)

	stored, err := repos.Actions.GetByID(context.Background(), action.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
	require.Len(t, stored.Comments[0].Replies, 1)
	assert.Equal(t, "answer", stored.Comments[0].Replies[0].Text)
}

func TestReplyToReplyIsRejected(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommentService(repos.Actions, ReplyPolicyAny, zerolog.Nop())
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	user := newTestUser(t, repos, "alice", models.RoleUser)

	comment, err := svc.AddComment(context.Background(), user, action.ID, &dto.CommentRequest{Text: "question?"})
	require.NoError(t, err)
	reply, err := svc.AddReply(context.Background(), owner, comment.Comment.ID, &dto.CommentRequest{Text: "answer"})
	require.NoError(t, err)

	// A reply id is not a valid reply target, which caps depth at one
	_, err = svc.AddReply(context.Background(), owner, reply.Reply.ID, &dto.CommentRequest{Text: "deeper"})
	assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
}

func TestReplyPolicyOwner(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommentService(repos.Actions, ReplyPolicyOwner, zerolog.Nop())
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	visitor := newTestUser(t, repos, "visitor", models.RoleUser)
	admin := newTestUser(t, repos, "root", models.RoleAdmin)

	comment, err := svc.AddComment(context.Background(), visitor, action.ID, &dto.CommentRequest{Text: "question?"})
	require.NoError(t, err)

	_, err = svc.AddReply(context.Background(), visitor, comment.Comment.ID, &dto.CommentRequest{Text: "self reply"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.AddReply(context.Background(), owner, comment.Comment.ID, &dto.CommentRequest{Text: "owner reply"})
	assert.NoError(t, err)

	_, err = svc.AddReply(context.Background(), admin, comment.Comment.ID, &dto.CommentRequest{Text: "admin reply"})
	assert.NoError(t, err)
}

func TestReplyPolicyAnyAllowsVisitors(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommentService(repos.Actions, ReplyPolicyAny, zerolog.Nop())
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	visitor := newTestUser(t, repos, "visitor", models.RoleUser)

	comment, err := svc.AddComment(context.Background(), visitor, action.ID, &dto.CommentRequest{Text: "question?"})
	require.NoError(t, err)

	_, err = svc.AddReply(context.Background(), visitor, comment.Comment.ID, &dto.CommentRequest{Text: "self reply"})
	assert.NoError(t, err)
}

func TestCommentOnUnknownActionIsNotFound(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommentService(repos.Actions, ReplyPolicyAny, zerolog.Nop())
	user := newTestUser(t, repos, "alice", models.RoleUser)

	_, err := svc.AddComment(context.Background(), user, "action-missing", &dto.CommentRequest{Text: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrActionNotFound)
}
