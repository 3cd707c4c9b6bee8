package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/repositories"
)

// PublicationService controls whether students can see the allocation
// snapshot. Draft hides it; Published exposes it. There is no unpublish.
type PublicationService struct {
	publicationRepo *repositories.PublicationRepository
	logger          zerolog.Logger
}

// NewPublicationService creates a new publication service instance
func NewPublicationService(publicationRepo *repositories.PublicationRepository, logger zerolog.Logger) *PublicationService {
	return &PublicationService{
		publicationRepo: publicationRepo,
		logger:          logger,
	}
}

// Get returns the current publication state.
func (s *PublicationService) Get(ctx context.Context) (*models.PublicationState, error) {
	return s.publicationRepo.Get(ctx)
}

// Publish transitions the schedule to Published. Publishing an already
// published schedule refreshes publishedAt so directed edits made after the
// first publication are visibly re-released; allocations are untouched.
func (s *PublicationService) Publish(ctx context.Context, directorID int64) (*models.PublicationState, error) {
	state, err := s.publicationRepo.Publish(ctx, directorID, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("directorId", directorID).
		Time("publishedAt", *state.PublishedAt).
		Msg("Schedule published")

	return state, nil
}
