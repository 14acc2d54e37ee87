package snapshot

import (
	"context"

	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/pkg/apperrors"
)

type interactionRepo struct {
	s *Store
}

func (r *interactionRepo) Find(_ context.Context, actionID, userID string, t models.InteractionType) (*models.Interaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, i := range r.s.state.Interactions {
		if i.ActionID == actionID && i.UserID == userID && i.Type == t {
			return clone(i), nil
		}
	}
	return nil, nil
}

func (r *interactionRepo) Create(_ context.Context, interaction *models.Interaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.state.Interactions = append(r.s.state.Interactions, clone(interaction))
	return r.s.commit(func() {
		r.s.state.Interactions = r.s.state.Interactions[:len(r.s.state.Interactions)-1]
	})
}

func (r *interactionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.state.Interactions {
		if r.s.state.Interactions[i].ID == id {
			prev := r.s.state.Interactions
			r.s.state.Interactions = append(
				append([]*models.Interaction{}, r.s.state.Interactions[:i]...),
				r.s.state.Interactions[i+1:]...)
			return r.s.commit(func() {
				r.s.state.Interactions = prev
			})
		}
	}
	return apperrors.ErrResourceNotFound
}

func (r *interactionRepo) SummaryByAction(_ context.Context, actionID string) (models.InteractionSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var summary models.InteractionSummary
	for _, i := range r.s.state.Interactions {
		if i.ActionID != actionID {
			continue
		}
		switch i.Type {
		case models.InteractionSupport:
			summary.Support++
		case models.InteractionMeaningful:
			summary.Meaningful++
		case models.InteractionInterested:
			summary.Interested++
		}
	}
	return summary, nil
}

func (r *interactionRepo) InterestedActionIDs(_ context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []string{}
	for _, i := range r.s.state.Interactions {
		if i.UserID == userID && i.Type == models.InteractionInterested {
			ids = append(ids, i.ActionID)
		}
	}
	return ids, nil
}
