package snapshot

import (
	"context"
	"strings"

	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/apperrors"
)

type actionRepo struct {
	s *Store
}

func matches(a *models.Action, f repositories.ActionFilter) bool {
	if f.Category != "" && !strings.EqualFold(a.Category, f.Category) {
		return false
	}
	if f.Region != "" && !strings.EqualFold(a.Region, f.Region) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(a.Status), f.Status) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(a.Name), needle) &&
			!strings.Contains(strings.ToLower(a.Summary), needle) &&
			!strings.Contains(strings.ToLower(a.Background), needle) {
			return false
		}
	}
	return true
}

func (r *actionRepo) List(_ context.Context, filter repositories.ActionFilter) ([]*models.Action, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var filtered []*models.Action
	for _, a := range r.s.state.Actions {
		if matches(a, filter) {
			filtered = append(filtered, a)
		}
	}
	total := len(filtered)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	start := (page - 1) * pageSize
	if start >= total {
		return []*models.Action{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	out := make([]*models.Action, 0, end-start)
	for _, a := range filtered[start:end] {
		out = append(out, clone(a))
	}
	return out, total, nil
}

func (r *actionRepo) ListAll(_ context.Context) ([]*models.Action, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Action, 0, len(r.s.state.Actions))
	for _, a := range r.s.state.Actions {
		out = append(out, clone(a))
	}
	return out, nil
}

func (r *actionRepo) GetByID(_ context.Context, id string) (*models.Action, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a := r.find(id)
	if a == nil {
		return nil, apperrors.ErrActionNotFound
	}
	return clone(a), nil
}

// find returns the stored record itself. Caller must hold the lock.
func (r *actionRepo) find(id string) *models.Action {
	for _, a := range r.s.state.Actions {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (r *actionRepo) Create(_ context.Context, action *models.Action) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Newest first, matching the browse order of the action list
	stored := clone(action)
	r.s.state.Actions = append([]*models.Action{stored}, r.s.state.Actions...)
	return r.s.commit(func() {
		r.s.state.Actions = r.s.state.Actions[1:]
	})
}

func (r *actionRepo) Update(_ context.Context, action *models.Action) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, a := range r.s.state.Actions {
		if a.ID == action.ID {
			prev := r.s.state.Actions[i]
			r.s.state.Actions[i] = clone(action)
			return r.s.commit(func() {
				r.s.state.Actions[i] = prev
			})
		}
	}
	return apperrors.ErrActionNotFound
}

func (r *actionRepo) AddComment(_ context.Context, actionID string, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.find(actionID)
	if a == nil {
		return apperrors.ErrActionNotFound
	}
	a.Comments = append(a.Comments, clone(comment))
	return r.s.commit(func() {
		a.Comments = a.Comments[:len(a.Comments)-1]
	})
}

func (r *actionRepo) FindByCommentID(_ context.Context, commentID string) (*models.Action, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.state.Actions {
		if a.FindComment(commentID) != nil {
			return clone(a), nil
		}
	}
	return nil, apperrors.ErrCommentNotFound
}

func (r *actionRepo) AddReply(_ context.Context, actionID, parentCommentID string, reply *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.find(actionID)
	if a == nil {
		return apperrors.ErrActionNotFound
	}
	parent := a.FindComment(parentCommentID)
	if parent == nil {
		return apperrors.ErrCommentNotFound
	}
	parent.Replies = append(parent.Replies, clone(reply))
	return r.s.commit(func() {
		parent.Replies = parent.Replies[:len(parent.Replies)-1]
	})
}

func (r *actionRepo) AddUpload(_ context.Context, actionID string, upload models.Upload) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.find(actionID)
	if a == nil {
		return apperrors.ErrActionNotFound
	}
	a.Uploads = append(a.Uploads, upload)
	return r.s.commit(func() {
		a.Uploads = a.Uploads[:len(a.Uploads)-1]
	})
}

func (r *actionRepo) UpdateUpload(_ context.Context, actionID string, upload models.Upload) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.find(actionID)
	if a == nil {
		return apperrors.ErrActionNotFound
	}
	for i := range a.Uploads {
		if a.Uploads[i].ID == upload.ID {
			prev := a.Uploads[i]
			a.Uploads[i] = upload
			return r.s.commit(func() {
				a.Uploads[i] = prev
			})
		}
	}
	return apperrors.NewResourceNotFoundError("Outcome not found")
}

func (r *actionRepo) DeleteUpload(_ context.Context, actionID, uploadID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.find(actionID)
	if a == nil {
		return apperrors.ErrActionNotFound
	}
	for i := range a.Uploads {
		if a.Uploads[i].ID == uploadID {
			prev := a.Uploads
			a.Uploads = append(append([]models.Upload{}, a.Uploads[:i]...), a.Uploads[i+1:]...)
			return r.s.commit(func() {
				a.Uploads = prev
			})
		}
	}
	return apperrors.NewResourceNotFoundError("Outcome not found")
}
