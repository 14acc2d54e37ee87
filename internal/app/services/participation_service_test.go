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

func newParticipationService(repos *repositories.Repositories) ParticipationService {
	return NewParticipationService(repos.Actions, repos.Participations, NewActionLocks(), zerolog.Nop())
}

func joinReq() *dto.JoinActionRequest {
	return &dto.JoinActionRequest{
		Motivation:          "I care about this",
		ResourceDescription: "two hours a week",
		Phone:               "555-0100",
	}
}

func TestJoinAssignsLowestFreeShapePoint(t *testing.T) {
	repos := newTestRepos(t)
	svc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 20, 6)

	// Occupy points 0, 2 and 5; the next join must land on 1
	for _, idx := range []int{0, 2, 5} {
		u := newTestUser(t, repos, "holder"+string(rune('a'+idx)), models.RoleUser)
		p := &models.Participation{ID: "part-" + u.ID, ActionID: action.ID, UserID: u.ID, PointIndex: idx}
		star := models.Star{ID: u.ID, Key: u.ID + "-" + action.ID, PointIndex: idx}
		require.NoError(t, repos.Participations.Create(context.Background(), p, star))
	}

	joiner := newTestUser(t, repos, "joiner", models.RoleUser)
	resp, err := svc.Join(context.Background(), joiner, action.ID, joinReq())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.PointIndex)
	assert.Equal(t, 4, resp.ParticipantCount)
	assert.Equal(t, 1, resp.Participation.PointIndex)
}

func TestJoinWrapsWhenAllPointsTaken(t *testing.T) {
	repos := newTestRepos(t)
	svc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 20, 3)

	// Fill every shape point
	for i := 0; i < 3; i++ {
		u := newTestUser(t, repos, "holder"+string(rune('a'+i)), models.RoleUser)
		resp, err := svc.Join(context.Background(), u, action.ID, joinReq())
		require.NoError(t, err)
		assert.Equal(t, i, resp.PointIndex)
	}

	// Fourth participant wraps to len(participants) % 3 == 0
	extra := newTestUser(t, repos, "extra", models.RoleUser)
	resp, err := svc.Join(context.Background(), extra, action.ID, joinReq())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.PointIndex)
	assert.Equal(t, 4, resp.ParticipantCount)
}

func TestJoinUnknownActionIsNotFound(t *testing.T) {
	repos := newTestRepos(t)
	svc := newParticipationService(repos)
	user := newTestUser(t, repos, "joiner", models.RoleUser)

	_, err := svc.Join(context.Background(), user, "action-missing", joinReq())
	assert.ErrorIs(t, err, apperrors.ErrActionNotFound)
}

func TestJoinTwiceIsRejected(t *testing.T) {
	repos := newTestRepos(t)
	svc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 20, 4)
	user := newTestUser(t, repos, "joiner", models.RoleUser)

	_, err := svc.Join(context.Background(), user, action.ID, joinReq())
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), user, action.ID, joinReq())
	assert.ErrorIs(t, err, apperrors.ErrAlreadyJoined)
}

func TestJoinFullActionLeavesNoTrace(t *testing.T) {
	repos := newTestRepos(t)
	svc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 1, 4)

	first := newTestUser(t, repos, "first", models.RoleUser)
	_, err := svc.Join(context.Background(), first, action.ID, joinReq())
	require.NoError(t, err)

	second := newTestUser(t, repos, "second", models.RoleUser)
	_, err = svc.Join(context.Background(), second, action.ID, joinReq())
	assert.ErrorIs(t, err, apperrors.ErrActionFull)

	// The rejected join must not have written anything
	p, err := repos.Participations.Find(context.Background(), action.ID, second.ID)
	require.NoError(t, err)
	assert.Nil(t, p)

	stored, err := repos.Actions.GetByID(context.Background(), action.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Participants, 1)
}

func TestJoinRequiresTagSelectionWhenActionHasTags(t *testing.T) {
	repos := newTestRepos(t)
	svc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)

	action := newTestAction(t, repos, owner.ID, 10, 4)
	action.ParticipationTags = []models.ParticipationTag{{Label: "helper"}}
	require.NoError(t, repos.Actions.Update(context.Background(), action))

	user := newTestUser(t, repos, "joiner", models.RoleUser)

	_, err := svc.Join(context.Background(), user, action.ID, joinReq())
	assert.ErrorIs(t, err, apperrors.ErrTagSelectionRequired)

	req := joinReq()
	req.SelectedTags = []string{"helper"}
	resp, err := svc.Join(context.Background(), user, action.ID, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"helper"}, resp.Participation.SelectedTags)
}

func TestJoinRejectsUnknownTagLabels(t *testing.T) {
	repos := newTestRepos(t)
	svc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)

	action := newTestAction(t, repos, owner.ID, 10, 4)
	action.ParticipationTags = []models.ParticipationTag{{Label: "helper"}, {Label: "driver"}}
	require.NoError(t, repos.Actions.Update(context.Background(), action))

	user := newTestUser(t, repos, "joiner", models.RoleUser)
	req := joinReq()
	req.SelectedTags = []string{"helper", "astronaut"}

	_, err := svc.Join(context.Background(), user, action.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestJoinWithoutTagsWhenActionHasNone(t *testing.T) {
	repos := newTestRepos(t)
	svc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	user := newTestUser(t, repos, "joiner", models.RoleUser)

	resp, err := svc.Join(context.Background(), user, action.ID, joinReq())
	require.NoError(t, err)
	assert.NotNil(t, resp.Participation.SelectedTags)
	assert.Empty(t, resp.Participation.SelectedTags)
}

func TestJoinRecordsStarWithCompositeKey(t *testing.T) {
	repos := newTestRepos(t)
	svc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)
	user := newTestUser(t, repos, "joiner", models.RoleUser)

	req := joinReq()
	req.ResourceDescription = "  a pickup truck  "
	_, err := svc.Join(context.Background(), user, action.ID, req)
	require.NoError(t, err)

	stored, err := repos.Actions.GetByID(context.Background(), action.ID)
	require.NoError(t, err)
	require.Len(t, stored.Participants, 1)
	star := stored.Participants[0]
	assert.Equal(t, user.ID, star.ID)
	assert.Equal(t, user.ID+"-"+action.ID, star.Key)

	p, err := repos.Participations.Find(context.Background(), action.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "a pickup truck", p.ResourceDescription)
}
