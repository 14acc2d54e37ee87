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
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/apperrors"
)

type actionRepo struct {
	db *pgxpool.Pool
}

var actionColumns = []string{
	"id", "owner_id", "name", "category", "region", "status",
	"summary", "background", "goals", "how_to_participate", "initiator",
	"max_participants", "participation_tags", "shape_points", "participants",
	"comments", "updates", "uploads", "resources", "sroi_report", "created_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAction(row rowScanner) (*models.Action, error) {
	var a models.Action
	var status string
	var goals, tags, points, participants, comments, updates, uploads, resources []byte
	var sroi []byte

	err := row.Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.Category, &a.Region, &status,
		&a.Summary, &a.Background, &goals, &a.HowToParticipate, &a.Initiator,
		&a.MaxParticipants, &tags, &points, &participants,
		&comments, &updates, &uploads, &resources, &sroi, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = models.ActionStatus(status)

	for _, field := range []struct {
		data []byte
		dst  interface{}
	}{
		{goals, &a.Goals},
		{tags, &a.ParticipationTags},
		{points, &a.ShapePoints},
		{participants, &a.Participants},
		{comments, &a.Comments},
		{updates, &a.Updates},
		{uploads, &a.Uploads},
		{resources, &a.Resources},
	} {
		if err := json.Unmarshal(field.data, field.dst); err != nil {
			return nil, fmt.Errorf("error decoding action document: %w", err)
		}
	}
	if len(sroi) > 0 {
		if err := json.Unmarshal(sroi, &a.SroiReport); err != nil {
			return nil, fmt.Errorf("error decoding sroi report: %w", err)
		}
	}

	return &a, nil
}

func actionValues(a *models.Action) ([]interface{}, error) {
	encoded := make([][]byte, 0, 8)
	for _, v := range []interface{}{
		a.Goals, a.ParticipationTags, a.ShapePoints, a.Participants,
		a.Comments, a.Updates, a.Uploads, a.Resources,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("error encoding action document: %w", err)
		}
		encoded = append(encoded, data)
	}

	var sroi interface{}
	if a.SroiReport != nil {
		data, err := json.Marshal(a.SroiReport)
		if err != nil {
			return nil, fmt.Errorf("error encoding sroi report: %w", err)
		}
		sroi = data
	}

	return []interface{}{
		a.ID, a.OwnerID, a.Name, a.Category, a.Region, string(a.Status),
		a.Summary, a.Background, encoded[0], a.HowToParticipate, a.Initiator,
		a.MaxParticipants, encoded[1], encoded[2], encoded[3],
		encoded[4], encoded[5], encoded[6], encoded[7], sroi, a.CreatedAt,
	}, nil
}

func applyFilter(query squirrel.SelectBuilder, f repositories.ActionFilter) squirrel.SelectBuilder {
	if f.Category != "" {
		query = query.Where(squirrel.Expr("LOWER(category) = LOWER(?)", f.Category))
	}
	if f.Region != "" {
		query = query.Where(squirrel.Expr("LOWER(region) = LOWER(?)", f.Region))
	}
	if f.Status != "" {
		query = query.Where(squirrel.Expr("LOWER(status) = LOWER(?)", f.Status))
	}
	if f.Search != "" {
		needle := "%" + f.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": needle},
			squirrel.ILike{"summary": needle},
			squirrel.ILike{"background": needle},
		})
	}
	return query
}

func (r *actionRepo) List(ctx context.Context, filter repositories.ActionFilter) ([]*models.Action, int, error) {
	countQuery := applyFilter(squirrel.Select("COUNT(*)").From("actions"), filter).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting actions: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	query := applyFilter(squirrel.Select(actionColumns...).From("actions"), filter).
		OrderBy("created_at DESC").
		Offset(uint64((page - 1) * pageSize)).
		Limit(uint64(pageSize)).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err = query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying actions: %w", err)
	}
	defer rows.Close()

	actions := []*models.Action{}
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, total, rows.Err()
}

func (r *actionRepo) ListAll(ctx context.Context) ([]*models.Action, error) {
	query := squirrel.Select(actionColumns...).From("actions").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying actions: %w", err)
	}
	defer rows.Close()

	actions := []*models.Action{}
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (r *actionRepo) GetByID(ctx context.Context, id string) (*models.Action, error) {
	query := squirrel.Select(actionColumns...).From("actions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	a, err := scanAction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrActionNotFound
		}
		return nil, fmt.Errorf("error querying action: %w", err)
	}
	return a, nil
}

func (r *actionRepo) Create(ctx context.Context, action *models.Action) error {
	values, err := actionValues(action)
	if err != nil {
		return err
	}
	query := squirrel.Insert("actions").
		Columns(actionColumns...).
		Values(values...).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating action: %w", err)
	}
	return nil
}

func (r *actionRepo) Update(ctx context.Context, action *models.Action) error {
	values, err := actionValues(action)
	if err != nil {
		return err
	}
	query := squirrel.Update("actions").PlaceholderFormat(squirrel.Dollar)
	for i, col := range actionColumns {
		if col == "id" || col == "created_at" {
			continue
		}
		query = query.Set(col, values[i])
	}
	query = query.Where(squirrel.Eq{"id": action.ID})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrActionNotFound
	}
	return nil
}

// mutateComments rewrites the comments document of one action inside a
// row-locked transaction.
func (r *actionRepo) mutateComments(ctx context.Context, actionID string, mutate func([]*models.Comment) ([]*models.Comment, error)) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, "SELECT comments FROM actions WHERE id = $1 FOR UPDATE", actionID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrActionNotFound
		}
		return fmt.Errorf("error locking action: %w", err)
	}

	var comments []*models.Comment
	if err := json.Unmarshal(raw, &comments); err != nil {
		return fmt.Errorf("error decoding comments: %w", err)
	}

	comments, err = mutate(comments)
	if err != nil {
		return err
	}

	updated, err := json.Marshal(comments)
	if err != nil {
		return fmt.Errorf("error encoding comments: %w", err)
	}
	if _, err := tx.Exec(ctx, "UPDATE actions SET comments = $1 WHERE id = $2", updated, actionID); err != nil {
		return fmt.Errorf("error updating comments: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *actionRepo) AddComment(ctx context.Context, actionID string, comment *models.Comment) error {
	return r.mutateComments(ctx, actionID, func(comments []*models.Comment) ([]*models.Comment, error) {
		return append(comments, comment), nil
	})
}

func (r *actionRepo) FindByCommentID(ctx context.Context, commentID string) (*models.Action, error) {
	query := squirrel.Select(actionColumns...).From("actions").
		Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM jsonb_array_elements(comments) c WHERE c->>'id' = ?)", commentID)).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	a, err := scanAction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error querying action by comment: %w", err)
	}
	return a, nil
}

func (r *actionRepo) AddReply(ctx context.Context, actionID, parentCommentID string, reply *models.Comment) error {
	return r.mutateComments(ctx, actionID, func(comments []*models.Comment) ([]*models.Comment, error) {
		for _, c := range comments {
			if c.ID == parentCommentID {
				c.Replies = append(c.Replies, reply)
				return comments, nil
			}
		}
		return nil, apperrors.ErrCommentNotFound
	})
}

// mutateUploads rewrites the uploads document of one action inside a
// row-locked transaction.
func (r *actionRepo) mutateUploads(ctx context.Context, actionID string, mutate func([]models.Upload) ([]models.Upload, error)) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, "SELECT uploads FROM actions WHERE id = $1 FOR UPDATE", actionID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrActionNotFound
		}
		return fmt.Errorf("error locking action: %w", err)
	}

	var uploads []models.Upload
	if err := json.Unmarshal(raw, &uploads); err != nil {
		return fmt.Errorf("error decoding uploads: %w", err)
	}

	uploads, err = mutate(uploads)
	if err != nil {
		return err
	}

	updated, err := json.Marshal(uploads)
	if err != nil {
		return fmt.Errorf("error encoding uploads: %w", err)
	}
	if _, err := tx.Exec(ctx, "UPDATE actions SET uploads = $1 WHERE id = $2", updated, actionID); err != nil {
		return fmt.Errorf("error updating uploads: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *actionRepo) AddUpload(ctx context.Context, actionID string, upload models.Upload) error {
	return r.mutateUploads(ctx, actionID, func(uploads []models.Upload) ([]models.Upload, error) {
		return append(uploads, upload), nil
	})
}

func (r *actionRepo) UpdateUpload(ctx context.Context, actionID string, upload models.Upload) error {
	return r.mutateUploads(ctx, actionID, func(uploads []models.Upload) ([]models.Upload, error) {
		for i := range uploads {
			if uploads[i].ID == upload.ID {
				uploads[i] = upload
				return uploads, nil
			}
		}
		return nil, apperrors.NewResourceNotFoundError("Outcome not found")
	})
}

func (r *actionRepo) DeleteUpload(ctx context.Context, actionID, uploadID string) error {
	return r.mutateUploads(ctx, actionID, func(uploads []models.Upload) ([]models.Upload, error) {
		for i := range uploads {
			if uploads[i].ID == uploadID {
				return append(uploads[:i], uploads[i+1:]...), nil
			}
		}
		return nil, apperrors.NewResourceNotFoundError("Outcome not found")
	})
}
