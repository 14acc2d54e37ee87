package snapshot

import (
	"context"

	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/pkg/apperrors"
)

type participationRepo struct {
	s *Store
}

func (r *participationRepo) Find(_ context.Context, actionID, userID string) (*models.Participation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.state.Participations {
		if p.ActionID == actionID && p.UserID == userID {
			return clone(p), nil
		}
	}
	return nil, nil
}

// Create records the participation and the participant star together; one
// flush covers both so a crash cannot separate them.
func (r *participationRepo) Create(_ context.Context, participation *models.Participation, star models.Star) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var action *models.Action
	for _, a := range r.s.state.Actions {
		if a.ID == participation.ActionID {
			action = a
			break
		}
	}
	if action == nil {
		return apperrors.ErrActionNotFound
	}

	r.s.state.Participations = append(r.s.state.Participations, clone(participation))
	action.Participants = append(action.Participants, star)
	return r.s.commit(func() {
		r.s.state.Participations = r.s.state.Participations[:len(r.s.state.Participations)-1]
		action.Participants = action.Participants[:len(action.Participants)-1]
	})
}

func (r *participationRepo) ListByAction(_ context.Context, actionID string) ([]models.Participation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Participation{}
	for _, p := range r.s.state.Participations {
		if p.ActionID == actionID {
			out = append(out, *clone(p))
		}
	}
	return out, nil
}
