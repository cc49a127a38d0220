package ports

import (
	"context"

	"github.com/aretw0/libretto/pkg/domain"
)

// OutputStore defines the interface for persisting render results.
// Records are keyed by (page, scene index, language).
type OutputStore interface {
	// Save persists a record, replacing any record with the same key.
	Save(ctx context.Context, rec *domain.Record) error

	// Load retrieves one record.
	// Returns domain.ErrRecordNotFound if it does not exist.
	Load(ctx context.Context, page string, scene int, language string) (*domain.Record, error)

	// List returns every record of a page ordered by scene, then language.
	List(ctx context.Context, page string) ([]*domain.Record, error)

	// Delete removes every record of a page.
	Delete(ctx context.Context, page string) error
}
