package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/apperrors"
	"github.com/weiting/stellact/internal/pkg/helpers"
)

// ParticipationService defines the interface for the join flow
type ParticipationService interface {
	Join(ctx context.Context, user *models.User, actionID string, req *dto.JoinActionRequest) (*dto.JoinActionResponse, error)
}

// participationServiceImpl implements ParticipationService
type participationServiceImpl struct {
	actionRepo        repositories.ActionRepository
	participationRepo repositories.ParticipationRepository
	locks             *ActionLocks
	logger            zerolog.Logger
}

// NewParticipationService creates a new ParticipationService
func NewParticipationService(
	actionRepo repositories.ActionRepository,
	participationRepo repositories.ParticipationRepository,
	locks *ActionLocks,
	logger zerolog.Logger,
) ParticipationService {
	return &participationServiceImpl{
		actionRepo:        actionRepo,
		participationRepo: participationRepo,
		locks:             locks,
		logger:            logger,
	}
}

// validateTagSelection rejects tag labels the action does not define
func validateTagSelection(action *models.Action, selected []string) error {
	for _, label := range selected {
		known := false
		for _, tag := range action.ParticipationTags {
			if tag.Label == label {
				known = true
				break
			}
		}
		if !known {
			return apperrors.NewValidationError(fmt.Sprintf("Unknown participation tag %q", label))
		}
	}
	return nil
}

// Join adds the user to the action. Preconditions are checked in a fixed
// order so callers always see the most specific failure: unknown action,
// duplicate join, full action, then missing tag selection. The new star sits
// on the lowest free shape point.
func (s *participationServiceImpl) Join(ctx context.Context, user *models.User, actionID string, req *dto.JoinActionRequest) (*dto.JoinActionResponse, error) {
	unlock := s.locks.Lock(actionID)
	defer unlock()

	s.logger.Debug().
		Str("actionID", actionID).
		Str("userID", user.ID).
		Msg("User joining action")

	action, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.participationRepo.Find(ctx, actionID, user.ID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("actionID", actionID).
			Str("userID", user.ID).
			Msg("Failed to check existing participation")
		return nil, fmt.Errorf("error checking participation: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrAlreadyJoined
	}

	if action.IsFull() {
		return nil, apperrors.ErrActionFull
	}

	if len(action.ParticipationTags) > 0 && len(req.SelectedTags) == 0 {
		return nil, apperrors.ErrTagSelectionRequired
	}
	if err := validateTagSelection(action, req.SelectedTags); err != nil {
		return nil, err
	}

	pointIndex := action.NextPointIndex()

	participation := &models.Participation{
		ID:                  helpers.NewID("part"),
		ActionID:            actionID,
		UserID:              user.ID,
		Motivation:          req.Motivation,
		SelectedTags:        req.SelectedTags,
		ResourceDescription: strings.TrimSpace(req.ResourceDescription),
		Phone:               req.Phone,
		JoinedAt:            timeNow(),
		PointIndex:          pointIndex,
	}
	if participation.SelectedTags == nil {
		participation.SelectedTags = []string{}
	}

	star := models.Star{
		ID:         user.ID,
		Key:        fmt.Sprintf("%s-%s", user.ID, actionID),
		PointIndex: pointIndex,
	}

	if err := s.participationRepo.Create(ctx, participation, star); err != nil {
		s.logger.Error().Err(err).
			Str("actionID", actionID).
			Str("userID", user.ID).
			Msg("Failed to record participation")
		return nil, fmt.Errorf("failed to record participation: %w", err)
	}

	s.logger.Info().
		Str("actionID", actionID).
		Str("userID", user.ID).
		Int("pointIndex", pointIndex).
		Msg("User joined action")

	return &dto.JoinActionResponse{
		Participation:    participation,
		PointIndex:       pointIndex,
		ParticipantCount: len(action.Participants) + 1,
	}, nil
}
