package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/pkg/apperrors"
)

type userRepo struct {
	db *pgxpool.Pool
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := squirrel.Insert("users").
		Columns("id", "name", "email", "avatar", "password_hash", "role").
		Values(user.ID, user.Name, user.Email, user.Avatar, user.PasswordHash, string(user.Role)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

func (r *userRepo) findOne(ctx context.Context, pred interface{}) (*models.User, error) {
	query := squirrel.Select("id", "name", "email", "avatar", "password_hash", "role").
		From("users").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var user models.User
	var role string
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Avatar, &user.PasswordHash, &role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	user.Role = models.Role(role)
	return &user, nil
}
