package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/apperrors"
	"github.com/weiting/stellact/internal/pkg/helpers"
)

// InteractionService defines the interface for reaction operations
type InteractionService interface {
	Toggle(ctx context.Context, user *models.User, actionID string, req *dto.InteractRequest) (*dto.InteractResponse, error)
	InterestedIDs(ctx context.Context, userID string) (*dto.InterestedResponse, error)
}

// interactionServiceImpl implements InteractionService
type interactionServiceImpl struct {
	actionRepo      repositories.ActionRepository
	interactionRepo repositories.InteractionRepository
	locks           *ActionLocks
	logger          zerolog.Logger
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(
	actionRepo repositories.ActionRepository,
	interactionRepo repositories.InteractionRepository,
	locks *ActionLocks,
	logger zerolog.Logger,
) InteractionService {
	return &interactionServiceImpl{
		actionRepo:      actionRepo,
		interactionRepo: interactionRepo,
		locks:           locks,
		logger:          logger,
	}
}

// Toggle flips one reaction type for the user: an active reaction is removed,
// an absent one is created. Each type toggles independently of the other two.
// The response carries the action's fresh counts plus the user's recomputed
// interested id list.
func (s *interactionServiceImpl) Toggle(ctx context.Context, user *models.User, actionID string, req *dto.InteractRequest) (*dto.InteractResponse, error) {
	t := models.InteractionType(req.Type)
	if !models.ValidInteractionType(t) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown interaction type %q", req.Type))
	}

	unlock := s.locks.Lock(actionID)
	defer unlock()

	// Resolve the action first so a toggle on a deleted or mistyped id is a
	// clean 404 instead of a dangling reaction record
	if _, err := s.actionRepo.GetByID(ctx, actionID); err != nil {
		return nil, err
	}

	existing, err := s.interactionRepo.Find(ctx, actionID, user.ID, t)
	if err != nil {
		s.logger.Error().Err(err).
			Str("actionID", actionID).
			Str("userID", user.ID).
			Msg("Failed to look up reaction")
		return nil, fmt.Errorf("error looking up reaction: %w", err)
	}

	status := "added"
	if existing != nil {
		if err := s.interactionRepo.Delete(ctx, existing.ID); err != nil {
			s.logger.Error().Err(err).
				Str("interactionID", existing.ID).
				Msg("Failed to remove reaction")
			return nil, fmt.Errorf("failed to remove reaction: %w", err)
		}
		status = "removed"
	} else {
		interaction := &models.Interaction{
			ID:        helpers.NewID("ia"),
			ActionID:  actionID,
			UserID:    user.ID,
			Type:      t,
			CreatedAt: timeNow(),
		}
		if err := s.interactionRepo.Create(ctx, interaction); err != nil {
			s.logger.Error().Err(err).
				Str("actionID", actionID).
				Str("userID", user.ID).
				Msg("Failed to record reaction")
			return nil, fmt.Errorf("failed to record reaction: %w", err)
		}
	}

	summary, err := s.interactionRepo.SummaryByAction(ctx, actionID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("actionID", actionID).
			Msg("Failed to count reactions")
		return nil, fmt.Errorf("failed to count reactions: %w", err)
	}

	interestedIDs, err := s.interactionRepo.InterestedActionIDs(ctx, user.ID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("userID", user.ID).
			Msg("Failed to list interested actions")
		return nil, fmt.Errorf("failed to list interested actions: %w", err)
	}

	return &dto.InteractResponse{
		Status:        status,
		Summary:       summary,
		InterestedIDs: interestedIDs,
	}, nil
}

// InterestedIDs lists the ids of actions the user marked interested
func (s *interactionServiceImpl) InterestedIDs(ctx context.Context, userID string) (*dto.InterestedResponse, error) {
	ids, err := s.interactionRepo.InterestedActionIDs(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("userID", userID).
			Msg("Failed to list interested actions")
		return nil, fmt.Errorf("failed to list interested actions: %w", err)
	}
	return &dto.InterestedResponse{ActionIDs: ids}, nil
}
