package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/app/repositories/snapshot"
	"github.com/weiting/stellact/internal/pkg/helpers"
)

// newTestRepos opens a memory-only snapshot store
func newTestRepos(t *testing.T) *repositories.Repositories {
	t.Helper()
	store, err := snapshot.Open("", nil, zerolog.Nop())
	require.NoError(t, err)
	return store.Repositories()
}

func newTestUser(t *testing.T, repos *repositories.Repositories, name string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:    helpers.NewID("user"),
		Name:  name,
		Email: name + "@example.com",
		Role:  role,
	}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

// newTestAction stores an action with the given owner, capacity and number of
// shape points
func newTestAction(t *testing.T, repos *repositories.Repositories, ownerID string, maxParticipants, shapePoints int) *models.Action {
	t.Helper()
	points := make([]models.ShapePoint, shapePoints)
	for i := range points {
		points[i] = models.ShapePoint{X: float64(i * 10), Y: float64(i * 5)}
	}
	action := &models.Action{
		ID:               helpers.NewID("action"),
		Name:             "Test Action",
		Category:         "environment",
		Status:           models.StatusInProgress,
		Summary:          "A test action",
		Background:       "Background",
		Goals:            []string{"goal"},
		HowToParticipate: "Show up",
		Initiator:        "Testers",
		OwnerID:          ownerID,
		MaxParticipants:  maxParticipants,
		ShapePoints:      points,
		Participants:     []models.Star{},
		Comments:         []*models.Comment{},
		Updates:          []models.Update{},
		Uploads:          []models.Upload{},
		Resources:        []models.Resource{},
	}
	require.NoError(t, repos.Actions.Create(context.Background(), action))
	return action
}
