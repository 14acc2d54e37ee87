package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/apperrors"
)

func newInteractionService(repos *repositories.Repositories) InteractionService {
	return NewInteractionService(repos.Actions, repos.Interactions, NewActionLocks(), zerolog.Nop())
}

func TestToggleOnThenOff(t *testing.T) {
	repos := newTestRepos(t)
	svc := newInteractionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	user := newTestUser(t, repos, "reactor", models.RoleUser)

	resp, err := svc.Toggle(context.Background(), user, action.ID, &dto.InteractRequest{Type: "support"})
	require.NoError(t, err)
	assert.Equal(t, "added", resp.Status)
	assert.Equal(t, 1, resp.Summary.Support)

	resp, err = svc.Toggle(context.Background(), user, action.ID, &dto.InteractRequest{Type: "support"})
	require.NoError(t, err)
	assert.Equal(t, "removed", resp.Status)
	assert.Equal(t, 0, resp.Summary.Support)
}

func TestToggleTypesAreIndependent(t *testing.T) {
	repos := newTestRepos(t)
	svc := newInteractionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	user := newTestUser(t, repos, "reactor", models.RoleUser)

	for _, typ := range []string{"support", "meaningful", "interested"} {
		_, err := svc.Toggle(context.Background(), user, action.ID, &dto.InteractRequest{Type: typ})
		require.NoError(t, err)
	}

	// Removing one type leaves the other two active
	resp, err := svc.Toggle(context.Background(), user, action.ID, &dto.InteractRequest{Type: "meaningful"})
	require.NoError(t, err)
	assert.Equal(t, "removed", resp.Status)
	assert.Equal(t, 1, resp.Summary.Support)
	assert.Equal(t, 0, resp.Summary.Meaningful)
	assert.Equal(t, 1, resp.Summary.Interested)
}

func TestToggleInterestedUpdatesInterestedList(t *testing.T) {
	repos := newTestRepos(t)
	svc := newInteractionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	first := newTestAction(t, repos, owner.ID, 10, 4)
	second := newTestAction(t, repos, owner.ID, 10, 4)
	user := newTestUser(t, repos, "reactor", models.RoleUser)

	_, err := svc.Toggle(context.Background(), user, first.ID, &dto.InteractRequest{Type: "interested"})
	require.NoError(t, err)
	resp, err := svc.Toggle(context.Background(), user, second.ID, &dto.InteractRequest{Type: "interested"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, resp.InterestedIDs)

	// Toggling off removes the action from the list
	resp, err = svc.Toggle(context.Background(), user, first.ID, &dto.InteractRequest{Type: "interested"})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, resp.InterestedIDs)

	listed, err := svc.InterestedIDs(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, listed.ActionIDs)
}

func TestToggleSupportDoesNotTouchInterestedList(t *testing.T) {
	repos := newTestRepos(t)
	svc := newInteractionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	user := newTestUser(t, repos, "reactor", models.RoleUser)

	resp, err := svc.Toggle(context.Background(), user, action.ID, &dto.InteractRequest{Type: "support"})
	require.NoError(t, err)
	assert.Empty(t, resp.InterestedIDs)
}

func TestToggleUnknownTypeIsRejected(t *testing.T) {
	repos := newTestRepos(t)
	svc := newInteractionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	user := newTestUser(t, repos, "reactor", models.RoleUser)

	_, err := svc.Toggle(context.Background(), user, action.ID, &dto.InteractRequest{Type: "applause"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestToggleUnknownActionIsNotFound(t *testing.T) {
	repos := newTestRepos(t)
	svc := newInteractionService(repos)
	user := newTestUser(t, repos, "reactor", models.RoleUser)

	_, err := svc.Toggle(context.Background(), user, "action-missing", &dto.InteractRequest{Type: "support"})
	assert.ErrorIs(t, err, apperrors.ErrActionNotFound)
}

func TestSummaryCountsDistinctUsers(t *testing.T) {
	repos := newTestRepos(t)
	svc := newInteractionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)

	for i := 0; i < 3; i++ {
		u := newTestUser(t, repos, "reactor"+string(rune('a'+i)), models.RoleUser)
		resp, err := svc.Toggle(context.Background(), u, action.ID, &dto.InteractRequest{Type: "meaningful"})
		require.NoError(t, err)
		assert.Equal(t, i+1, resp.Summary.Meaningful)
	}
}
