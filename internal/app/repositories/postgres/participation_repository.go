package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/pkg/apperrors"
)

type participationRepo struct {
	db *pgxpool.Pool
}

var participationColumns = []string{
	"id", "action_id", "user_id", "motivation", "selected_tags",
	"resource_description", "phone", "joined_at", "point_index",
}

func scanParticipation(row rowScanner) (*models.Participation, error) {
	var p models.Participation
	var tags []byte
	err := row.Scan(
		&p.ID, &p.ActionID, &p.UserID, &p.Motivation, &tags,
		&p.ResourceDescription, &p.Phone, &p.JoinedAt, &p.PointIndex,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &p.SelectedTags); err != nil {
		return nil, fmt.Errorf("error decoding selected tags: %w", err)
	}
	return &p, nil
}

func (r *participationRepo) Find(ctx context.Context, actionID, userID string) (*models.Participation, error) {
	query := squirrel.Select(participationColumns...).From("participations").
		Where(squirrel.Eq{"action_id": actionID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	p, err := scanParticipation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying participation: %w", err)
	}
	return p, nil
}

// Create inserts the participation row and appends the participant star to
// the action document in one transaction.
func (r *participationRepo) Create(ctx context.Context, participation *models.Participation, star models.Star) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tags, err := json.Marshal(participation.SelectedTags)
	if err != nil {
		return fmt.Errorf("error encoding selected tags: %w", err)
	}

	query := squirrel.Insert("participations").
		Columns(participationColumns...).
		Values(
			participation.ID, participation.ActionID, participation.UserID,
			participation.Motivation, tags, participation.ResourceDescription,
			participation.Phone, participation.JoinedAt, participation.PointIndex,
		).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAlreadyJoined
		}
		return fmt.Errorf("error creating participation: %w", err)
	}

	starDoc, err := json.Marshal(star)
	if err != nil {
		return fmt.Errorf("error encoding participant: %w", err)
	}
	tag, err := tx.Exec(ctx,
		"UPDATE actions SET participants = participants || $1::jsonb WHERE id = $2",
		starDoc, participation.ActionID,
	)
	if err != nil {
		return fmt.Errorf("error appending participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrActionNotFound
	}

	return tx.Commit(ctx)
}

func (r *participationRepo) ListByAction(ctx context.Context, actionID string) ([]models.Participation, error) {
	query := squirrel.Select(participationColumns...).From("participations").
		Where(squirrel.Eq{"action_id": actionID}).
		OrderBy("joined_at ASC").
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying participations: %w", err)
	}
	defer rows.Close()

	out := []models.Participation{}
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning participation: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
