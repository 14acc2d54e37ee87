package snapshot

import (
	"context"
	"strings"

	"github.com/weiting/stellact/internal/app/models"
)

// snapshotUser is the persisted form of a user. The API model hides the
// password hash from JSON, so reusing it for the snapshot would strip the
// hash on every clone and flush and lock every account out after a restart.
type snapshotUser struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Avatar       string      `json:"avatar"`
	PasswordHash string      `json:"passwordHash"`
	Role         models.Role `json:"role"`
}

func toSnapshotUser(u *models.User) *snapshotUser {
	return &snapshotUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Avatar:       u.Avatar,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

// toModel returns a fresh User per call, so readers never alias store state
func (su *snapshotUser) toModel() *models.User {
	return &models.User{
		ID:           su.ID,
		Name:         su.Name,
		Email:        su.Email,
		Avatar:       su.Avatar,
		PasswordHash: su.PasswordHash,
		Role:         su.Role,
	}
}

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.state.Users = append(r.s.state.Users, toSnapshotUser(user))
	return r.s.commit(func() {
		r.s.state.Users = r.s.state.Users[:len(r.s.state.Users)-1]
	})
}

func (r *userRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.state.Users {
		if u.ID == id {
			return u.toModel(), nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToLower(email)
	for _, u := range r.s.state.Users {
		if strings.ToLower(u.Email) == needle {
			return u.toModel(), nil
		}
	}
	return nil, nil
}
