package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmelo/shiftboard/internal/app/models"
)

// PublicationRepository handles the singleton publication state row.
type PublicationRepository struct {
	db *pgxpool.Pool
}

// NewPublicationRepository creates a new publication repository
func NewPublicationRepository(db *pgxpool.Pool) *PublicationRepository {
	return &PublicationRepository{
		db: db,
	}
}

// Get retrieves the publication state. The row is seeded by the migrations,
// so it always exists.
func (r *PublicationRepository) Get(ctx context.Context) (*models.PublicationState, error) {
	query := `
		SELECT id, status, published_at, publisher_id
		FROM publication_state
		WHERE id = 1
	`

	var state models.PublicationState
	err := r.db.QueryRow(ctx, query).Scan(
		&state.ID,
		&state.Status,
		&state.PublishedAt,
		&state.PublisherID,
	)
	if err != nil {
		return nil, fmt.Errorf("error retrieving publication state: %w", err)
	}

	return &state, nil
}

// Publish transitions the state to Published, stamping publishedAt and the
// publisher. Publishing again only refreshes the timestamp.
func (r *PublicationRepository) Publish(ctx context.Context, publisherID int64, publishedAt time.Time) (*models.PublicationState, error) {
	query := `
		UPDATE publication_state
		SET status = $1, published_at = $2, publisher_id = $3
		WHERE id = 1
		RETURNING id, status, published_at, publisher_id
	`

	var state models.PublicationState
	err := r.db.QueryRow(ctx, query, models.PublicationPublished, publishedAt, publisherID).Scan(
		&state.ID,
		&state.Status,
		&state.PublishedAt,
		&state.PublisherID,
	)
	if err != nil {
		return nil, fmt.Errorf("error publishing schedule: %w", err)
	}

	return &state, nil
}
