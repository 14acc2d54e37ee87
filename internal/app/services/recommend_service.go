package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/recommender"
)

// RecommendService defines the interface for action recommendations
type RecommendService interface {
	Recommend(ctx context.Context, userID string, req *dto.RecommendRequest) (*dto.RecommendResponse, error)
}

// recommendServiceImpl implements RecommendService
type recommendServiceImpl struct {
	actionRepo repositories.ActionRepository
	ranker     recommender.Recommender
	logger     zerolog.Logger
}

// NewRecommendService creates a new RecommendService
func NewRecommendService(actionRepo repositories.ActionRepository, ranker recommender.Recommender, logger zerolog.Logger) RecommendService {
	return &recommendServiceImpl{
		actionRepo: actionRepo,
		ranker:     ranker,
		logger:     logger,
	}
}

// Recommend ranks the catalog for the query. Ranking never fails: the ranker
// degrades to a heuristic internally, and an empty catalog yields an empty
// list. Only a broken repository read surfaces as an error.
func (s *recommendServiceImpl) Recommend(ctx context.Context, userID string, req *dto.RecommendRequest) (*dto.RecommendResponse, error) {
	actions, err := s.actionRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load actions for recommendation")
		return nil, err
	}

	digests := make([]recommender.Digest, 0, len(actions))
	for _, a := range actions {
		digests = append(digests, recommender.Digest{
			ID:       a.ID,
			Name:     a.Name,
			Category: a.Category,
			Summary:  a.Summary,
			Tags:     a.ParticipationTags,
		})
	}

	ids, source := s.ranker.Rank(ctx, recommender.Query{
		Text:          req.Query,
		UserID:        userID,
		InterestedIDs: req.InterestedIDs,
		Actions:       digests,
	})

	return &dto.RecommendResponse{IDs: ids, Source: source}, nil
}
