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

// ActionService defines the interface for action operations
type ActionService interface {
	List(ctx context.Context, filter *dto.ActionFilterRequest) (*dto.ActionListResponse, error)
	Get(ctx context.Context, id string) (*dto.ActionDetailResponse, error)
	Create(ctx context.Context, user *models.User, req *dto.CreateActionRequest) (*dto.CreatedActionResponse, error)
	Update(ctx context.Context, user *models.User, id string, req *dto.UpdateActionRequest) (*dto.ActionResponse, error)
	AddOutcome(ctx context.Context, user *models.User, actionID string, req *dto.OutcomeRequest) (*dto.OutcomeResponse, error)
	UpdateOutcome(ctx context.Context, user *models.User, actionID, uploadID string, req *dto.OutcomeUpdateRequest) (*dto.OutcomeResponse, error)
	DeleteOutcome(ctx context.Context, user *models.User, actionID, uploadID string) error
}

// actionServiceImpl implements ActionService
type actionServiceImpl struct {
	actionRepo        repositories.ActionRepository
	participationRepo repositories.ParticipationRepository
	interactionRepo   repositories.InteractionRepository
	locks             *ActionLocks
	logger            zerolog.Logger
}

// NewActionService creates a new ActionService
func NewActionService(
	actionRepo repositories.ActionRepository,
	participationRepo repositories.ParticipationRepository,
	interactionRepo repositories.InteractionRepository,
	locks *ActionLocks,
	logger zerolog.Logger,
) ActionService {
	return &actionServiceImpl{
		actionRepo:        actionRepo,
		participationRepo: participationRepo,
		interactionRepo:   interactionRepo,
		locks:             locks,
		logger:            logger,
	}
}

// List returns one page of the filtered action list, each item carrying its
// live reaction counts
func (s *actionServiceImpl) List(ctx context.Context, filter *dto.ActionFilterRequest) (*dto.ActionListResponse, error) {
	s.logger.Debug().
		Interface("filter", filter).
		Msg("Listing actions")

	actions, total, err := s.actionRepo.List(ctx, repositories.ActionFilter{
		Category: filter.Category,
		Region:   filter.Region,
		Status:   filter.Status,
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Interface("filter", filter).
			Msg("Failed to list actions")
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	data := make([]dto.ActionResponse, 0, len(actions))
	for _, action := range actions {
		summary, err := s.interactionRepo.SummaryByAction(ctx, action.ID)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("actionID", action.ID).
				Msg("Failed to count reactions, returning zeros")
			summary = models.InteractionSummary{}
		}
		data = append(data, dto.ActionResponse{Action: action, Interactions: summary})
	}

	return &dto.ActionListResponse{
		Data:     data,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	}, nil
}

// Get returns one action with its reaction counts and participation records
func (s *actionServiceImpl) Get(ctx context.Context, id string) (*dto.ActionDetailResponse, error) {
	action, err := s.actionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.interactionRepo.SummaryByAction(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("actionID", id).
			Msg("Failed to count reactions, returning zeros")
		summary = models.InteractionSummary{}
	}

	participations, err := s.participationRepo.ListByAction(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).
			Str("actionID", id).
			Msg("Failed to list participations")
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}

	return &dto.ActionDetailResponse{
		Action:         dto.ActionResponse{Action: action, Interactions: summary},
		Participations: participations,
	}, nil
}

// Create registers a new action owned by the calling user. Participant,
// comment and outcome collections start empty regardless of the payload.
func (s *actionServiceImpl) Create(ctx context.Context, user *models.User, req *dto.CreateActionRequest) (*dto.CreatedActionResponse, error) {
	s.logger.Debug().
		Str("userID", user.ID).
		Str("name", req.Name).
		Msg("Creating action")

	if !models.ValidStatus(req.Status) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", req.Status))
	}

	action := &models.Action{
		ID:                helpers.NewID("action"),
		Name:              req.Name,
		Category:          req.Category,
		Region:            req.Region,
		Status:            req.Status,
		Summary:           req.Summary,
		Background:        req.Background,
		Goals:             req.Goals,
		HowToParticipate:  req.HowToParticipate,
		Initiator:         req.Initiator,
		OwnerID:           user.ID,
		MaxParticipants:   req.MaxParticipants,
		ParticipationTags: req.ParticipationTags,
		ShapePoints:       req.ShapePoints,
		Participants:      []models.Star{},
		Comments:          []*models.Comment{},
		Updates:           req.Updates,
		Uploads:           []models.Upload{},
		Resources:         []models.Resource{},
		SroiReport:        req.SroiReport,
		CreatedAt:         timeNow(),
	}
	if action.Goals == nil {
		action.Goals = []string{}
	}
	if action.Updates == nil {
		action.Updates = []models.Update{}
	}

	if err := s.actionRepo.Create(ctx, action); err != nil {
		s.logger.Error().Err(err).
			Str("name", req.Name).
			Msg("Failed to create action")
		return nil, fmt.Errorf("failed to create action: %w", err)
	}

	s.logger.Info().
		Str("actionID", action.ID).
		Str("ownerID", user.ID).
		Msg("Action created")

	return &dto.CreatedActionResponse{Action: action}, nil
}

// Update merges the non-nil request fields into the stored action. Only the
// owner or an admin may update, and the shape point list can never shrink
// below the highest slot already assigned to a participant.
func (s *actionServiceImpl) Update(ctx context.Context, user *models.User, id string, req *dto.UpdateActionRequest) (*dto.ActionResponse, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	action, err := s.actionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !action.CanManage(user) {
		return nil, apperrors.NewForbiddenError("Only the action owner may update it")
	}

	if req.Name != nil {
		action.Name = *req.Name
	}
	if req.Category != nil {
		action.Category = *req.Category
	}
	if req.Region != nil {
		action.Region = *req.Region
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", *req.Status))
		}
		action.Status = *req.Status
	}
	if req.Summary != nil {
		action.Summary = *req.Summary
	}
	if req.Background != nil {
		action.Background = *req.Background
	}
	if req.Goals != nil {
		action.Goals = *req.Goals
	}
	if req.HowToParticipate != nil {
		action.HowToParticipate = *req.HowToParticipate
	}
	if req.Initiator != nil {
		action.Initiator = *req.Initiator
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < len(action.Participants) {
			return nil, apperrors.NewValidationError("maxParticipants cannot drop below the current participant count")
		}
		action.MaxParticipants = *req.MaxParticipants
	}
	if req.ParticipationTags != nil {
		action.ParticipationTags = *req.ParticipationTags
	}
	if req.ShapePoints != nil {
		if n := len(*req.ShapePoints); n < minShapePoints(action) {
			return nil, apperrors.NewValidationError("shapePoints cannot shrink below an assigned participant slot")
		}
		action.ShapePoints = *req.ShapePoints
	}
	if req.Updates != nil {
		action.Updates = *req.Updates
	}
	if req.SroiReport != nil {
		action.SroiReport = req.SroiReport
	}

	if err := s.actionRepo.Update(ctx, action); err != nil {
		s.logger.Error().Err(err).
			Str("actionID", id).
			Msg("Failed to update action")
		return nil, fmt.Errorf("failed to update action: %w", err)
	}

	summary, err := s.interactionRepo.SummaryByAction(ctx, id)
	if err != nil {
		summary = models.InteractionSummary{}
	}
	return &dto.ActionResponse{Action: action, Interactions: summary}, nil
}

// minShapePoints is the smallest shape point count the action may carry:
// one past the highest slot currently occupied by a participant.
func minShapePoints(action *models.Action) int {
	min := 0
	for _, p := range action.Participants {
		if p.PointIndex+1 > min {
			min = p.PointIndex + 1
		}
	}
	return min
}

// AddOutcome appends an entry to the action's outcome gallery
func (s *actionServiceImpl) AddOutcome(ctx context.Context, user *models.User, actionID string, req *dto.OutcomeRequest) (*dto.OutcomeResponse, error) {
	action, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if !action.CanManage(user) {
		return nil, apperrors.NewForbiddenError("Only the action owner may manage outcomes")
	}

	upload := models.Upload{
		ID:      helpers.NewID("upload"),
		URL:     req.URL,
		Caption: req.Caption,
	}
	if err := s.actionRepo.AddUpload(ctx, actionID, upload); err != nil {
		s.logger.Error().Err(err).
			Str("actionID", actionID).
			Msg("Failed to add outcome")
		return nil, fmt.Errorf("failed to add outcome: %w", err)
	}
	return &dto.OutcomeResponse{Upload: upload}, nil
}

// UpdateOutcome edits an existing outcome gallery entry
func (s *actionServiceImpl) UpdateOutcome(ctx context.Context, user *models.User, actionID, uploadID string, req *dto.OutcomeUpdateRequest) (*dto.OutcomeResponse, error) {
	action, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if !action.CanManage(user) {
		return nil, apperrors.NewForbiddenError("Only the action owner may manage outcomes")
	}

	var upload *models.Upload
	for i := range action.Uploads {
		if action.Uploads[i].ID == uploadID {
			upload = &action.Uploads[i]
			break
		}
	}
	if upload == nil {
		return nil, apperrors.NewResourceNotFoundError("Outcome not found")
	}

	if req.URL != nil {
		upload.URL = *req.URL
	}
	if req.Caption != nil {
		upload.Caption = *req.Caption
	}

	if err := s.actionRepo.UpdateUpload(ctx, actionID, *upload); err != nil {
		s.logger.Error().Err(err).
			Str("actionID", actionID).
			Str("uploadID", uploadID).
			Msg("Failed to update outcome")
		return nil, fmt.Errorf("failed to update outcome: %w", err)
	}
	return &dto.OutcomeResponse{Upload: *upload}, nil
}

// DeleteOutcome removes an entry from the outcome gallery
func (s *actionServiceImpl) DeleteOutcome(ctx context.Context, user *models.User, actionID, uploadID string) error {
	action, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return err
	}
	if !action.CanManage(user) {
		return apperrors.NewForbiddenError("Only the action owner may manage outcomes")
	}

	if err := s.actionRepo.DeleteUpload(ctx, actionID, uploadID); err != nil {
		s.logger.Error().Err(err).
			Str("actionID", actionID).
			Str("uploadID", uploadID).
			Msg("Failed to delete outcome")
		return err
	}
	return nil
}
