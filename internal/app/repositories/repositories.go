package repositories

import (
	"context"

	"github.com/weiting/stellact/internal/app/models"
)

// ActionFilter describes the list query. Category, region and status are
// exact matches (case-insensitive); search is a case-insensitive substring
// match over name, summary and background.
type ActionFilter struct {
	Category string
	Region   string
	Status   string
	Search   string
	Page     int
	PageSize int
}

// UserRepository owns the user table
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByEmail matches case-insensitively; returns (nil, nil) when absent
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// ActionRepository owns the canonical action list, newest first
type ActionRepository interface {
	List(ctx context.Context, filter ActionFilter) ([]*models.Action, int, error)
	ListAll(ctx context.Context) ([]*models.Action, error)
	GetByID(ctx context.Context, id string) (*models.Action, error)
	Create(ctx context.Context, action *models.Action) error
	// Update replaces the stored record wholesale; callers merge first
	Update(ctx context.Context, action *models.Action) error
	AddComment(ctx context.Context, actionID string, comment *models.Comment) error
	// FindByCommentID resolves the action holding the given top-level comment
	FindByCommentID(ctx context.Context, commentID string) (*models.Action, error)
	AddReply(ctx context.Context, actionID, parentCommentID string, reply *models.Comment) error
	AddUpload(ctx context.Context, actionID string, upload models.Upload) error
	UpdateUpload(ctx context.Context, actionID string, upload models.Upload) error
	DeleteUpload(ctx context.Context, actionID, uploadID string) error
}

// ParticipationRepository owns join records
type ParticipationRepository interface {
	// Find returns (nil, nil) when no record exists for the pair
	Find(ctx context.Context, actionID, userID string) (*models.Participation, error)
	// Create records the participation and appends the participant star to
	// its action in one durable write, so a crash cannot separate them
	Create(ctx context.Context, participation *models.Participation, star models.Star) error
	ListByAction(ctx context.Context, actionID string) ([]models.Participation, error)
}

// InteractionRepository owns reaction records
type InteractionRepository interface {
	// Find returns (nil, nil) when the reaction is not active
	Find(ctx context.Context, actionID, userID string, t models.InteractionType) (*models.Interaction, error)
	Create(ctx context.Context, interaction *models.Interaction) error
	Delete(ctx context.Context, id string) error
	SummaryByAction(ctx context.Context, actionID string) (models.InteractionSummary, error)
	InterestedActionIDs(ctx context.Context, userID string) ([]string, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Users          UserRepository
	Actions        ActionRepository
	Participations ParticipationRepository
	Interactions   InteractionRepository
}
