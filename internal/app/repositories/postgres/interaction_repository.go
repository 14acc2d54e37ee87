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

type interactionRepo struct {
	db *pgxpool.Pool
}

func (r *interactionRepo) Find(ctx context.Context, actionID, userID string, t models.InteractionType) (*models.Interaction, error) {
	query := squirrel.Select("id", "action_id", "user_id", "type", "created_at").
		From("interactions").
		Where(squirrel.Eq{"action_id": actionID, "user_id": userID, "type": string(t)}).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var i models.Interaction
	var typ string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&i.ID, &i.ActionID, &i.UserID, &typ, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying interaction: %w", err)
	}
	i.Type = models.InteractionType(typ)
	return &i, nil
}

func (r *interactionRepo) Create(ctx context.Context, interaction *models.Interaction) error {
	query := squirrel.Insert("interactions").
		Columns("id", "action_id", "user_id", "type", "created_at").
		Values(interaction.ID, interaction.ActionID, interaction.UserID,
			string(interaction.Type), interaction.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			// A concurrent toggle already activated it; treat as conflict
			return apperrors.ErrConflict
		}
		return fmt.Errorf("error creating interaction: %w", err)
	}
	return nil
}

func (r *interactionRepo) Delete(ctx context.Context, id string) error {
	query := squirrel.Delete("interactions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting interaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

func (r *interactionRepo) SummaryByAction(ctx context.Context, actionID string) (models.InteractionSummary, error) {
	query := squirrel.Select("type", "COUNT(*)").
		From("interactions").
		Where(squirrel.Eq{"action_id": actionID}).
		GroupBy("type").
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return models.InteractionSummary{}, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return models.InteractionSummary{}, fmt.Errorf("error querying interaction counts: %w", err)
	}
	defer rows.Close()

	var summary models.InteractionSummary
	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return models.InteractionSummary{}, fmt.Errorf("error scanning interaction count: %w", err)
		}
		switch models.InteractionType(typ) {
		case models.InteractionSupport:
			summary.Support = count
		case models.InteractionMeaningful:
			summary.Meaningful = count
		case models.InteractionInterested:
			summary.Interested = count
		}
	}
	return summary, rows.Err()
}

func (r *interactionRepo) InterestedActionIDs(ctx context.Context, userID string) ([]string, error) {
	query := squirrel.Select("action_id").
		From("interactions").
		Where(squirrel.Eq{"user_id": userID, "type": string(models.InteractionInterested)}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying interested actions: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning action id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
