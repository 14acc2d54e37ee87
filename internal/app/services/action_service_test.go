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

func newActionService(repos *repositories.Repositories) ActionService {
	return NewActionService(repos.Actions, repos.Participations, repos.Interactions, NewActionLocks(), zerolog.Nop())
}

func createReq() *dto.CreateActionRequest {
	return &dto.CreateActionRequest{
		Name:              "Tree Planting",
		Category:          "environment",
		Status:            models.StatusPending,
		Summary:           "Plant trees",
		Background:        "The park lost trees in the storm",
		Goals:             []string{"100 trees"},
		HowToParticipate:  "Bring a shovel",
		Initiator:         "Park Friends",
		MaxParticipants:   15,
		ParticipationTags: []models.ParticipationTag{{Label: "planter"}},
		ShapePoints:       []models.ShapePoint{{X: 10, Y: 10}, {X: 20, Y: 20}},
	}
}

func TestCreateActionStartsEmpty(t *testing.T) {
	repos := newTestRepos(t)
	svc := newActionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)

	resp, err := svc.Create(context.Background(), owner, createReq())
	require.NoError(t, err)
	action := resp.Action
	assert.Equal(t, owner.ID, action.OwnerID)
	assert.NotNil(t, action.Participants)
	assert.Empty(t, action.Participants)
	assert.NotNil(t, action.Comments)
	assert.NotNil(t, action.Uploads)
	assert.False(t, action.CreatedAt.IsZero())
}

func TestCreateActionRejectsUnknownStatus(t *testing.T) {
	repos := newTestRepos(t)
	svc := newActionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)

	req := createReq()
	req.Status = "PAUSED"
	_, err := svc.Create(context.Background(), owner, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListNewestFirstWithCounts(t *testing.T) {
	repos := newTestRepos(t)
	svc := newActionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)

	first, err := svc.Create(context.Background(), owner, createReq())
	require.NoError(t, err)
	req := createReq()
	req.Name = "Second Action"
	second, err := svc.Create(context.Background(), owner, req)
	require.NoError(t, err)

	resp, err := svc.List(context.Background(), &dto.ActionFilterRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, second.Action.ID, resp.Data[0].ID)
	assert.Equal(t, first.Action.ID, resp.Data[1].ID)
	assert.Equal(t, 2, resp.Total)
}

func TestUpdateMergesPartialFields(t *testing.T) {
	repos := newTestRepos(t)
	svc := newActionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)

	created, err := svc.Create(context.Background(), owner, createReq())
	require.NoError(t, err)

	newName := "Bigger Tree Planting"
	newStatus := models.StatusInProgress
	resp, err := svc.Update(context.Background(), owner, created.Action.ID, &dto.UpdateActionRequest{
		Name:   &newName,
		Status: &newStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bigger Tree Planting", resp.Name)
	assert.Equal(t, models.StatusInProgress, resp.Status)
	// Untouched fields survive
	assert.Equal(t, "Plant trees", resp.Summary)
	assert.Len(t, resp.ShapePoints, 2)
}

func TestUpdateRequiresOwnerOrAdmin(t *testing.T) {
	repos := newTestRepos(t)
	svc := newActionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	visitor := newTestUser(t, repos, "visitor", models.RoleUser)
	admin := newTestUser(t, repos, "root", models.RoleAdmin)

	created, err := svc.Create(context.Background(), owner, createReq())
	require.NoError(t, err)

	newName := "Hijacked"
	_, err = svc.Update(context.Background(), visitor, created.Action.ID, &dto.UpdateActionRequest{Name: &newName})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Update(context.Background(), admin, created.Action.ID, &dto.UpdateActionRequest{Name: &newName})
	assert.NoError(t, err)
}

func TestUpdateCannotShrinkShapePointsBelowAssignedSlot(t *testing.T) {
	repos := newTestRepos(t)
	svc := newActionService(repos)
	joinSvc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)

	// Put participants on slots 0 and 1
	for _, name := range []string{"a", "b"} {
		u := newTestUser(t, repos, name, models.RoleUser)
		_, err := joinSvc.Join(context.Background(), u, action.ID, joinReq())
		require.NoError(t, err)
	}

	one := []models.ShapePoint{{X: 1, Y: 1}}
	_, err := svc.Update(context.Background(), owner, action.ID, &dto.UpdateActionRequest{ShapePoints: &one})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	two := []models.ShapePoint{{X: 1, Y: 1}, {X: 2, Y: 2}}
	_, err = svc.Update(context.Background(), owner, action.ID, &dto.UpdateActionRequest{ShapePoints: &two})
	assert.NoError(t, err)
}

func TestUpdateCannotDropCapBelowParticipants(t *testing.T) {
	repos := newTestRepos(t)
	svc := newActionService(repos)
	joinSvc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)

	for _, name := range []string{"a", "b", "c"} {
		u := newTestUser(t, repos, name, models.RoleUser)
		_, err := joinSvc.Join(context.Background(), u, action.ID, joinReq())
		require.NoError(t, err)
	}

	two := 2
	_, err := svc.Update(context.Background(), owner, action.ID, &dto.UpdateActionRequest{MaxParticipants: &two})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestOutcomeLifecycle(t *testing.T) {
	repos := newTestRepos(t)
	svc := newActionService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	visitor := newTestUser(t, repos, "visitor", models.RoleUser)

	created, err := svc.Create(context.Background(), owner, createReq())
	require.NoError(t, err)
	actionID := created.Action.ID

	_, err = svc.AddOutcome(context.Background(), visitor, actionID, &dto.OutcomeRequest{URL: "https://example.com/1.jpg"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	added, err := svc.AddOutcome(context.Background(), owner, actionID, &dto.OutcomeRequest{URL: "https://example.com/1.jpg", Caption: "before"})
	require.NoError(t, err)

	newCaption := "after"
	updated, err := svc.UpdateOutcome(context.Background(), owner, actionID, added.Upload.ID, &dto.OutcomeUpdateRequest{Caption: &newCaption})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Upload.Caption)
	assert.Equal(t, "https://example.com/1.jpg", updated.Upload.URL)

	require.NoError(t, svc.DeleteOutcome(context.Background(), owner, actionID, added.Upload.ID))

	detail, err := svc.Get(context.Background(), actionID)
	require.NoError(t, err)
	assert.Empty(t, detail.Action.Uploads)
}

func TestGetReturnsParticipations(t *testing.T) {
	repos := newTestRepos(t)
	svc := newActionService(repos)
	joinSvc := newParticipationService(repos)
	owner := newTestUser(t, repos, "owner", models.RoleUser)
	action := newTestAction(t, repos, owner.ID, 10, 4)

	u := newTestUser(t, repos, "joiner", models.RoleUser)
	_, err := joinSvc.Join(context.Background(), u, action.ID, joinReq())
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), action.ID)
	require.NoError(t, err)
	require.Len(t, detail.Participations, 1)
	assert.Equal(t, u.ID, detail.Participations[0].UserID)
}
