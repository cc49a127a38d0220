package domain

import (
	"cmp"
	"slices"
	"time"
)

// Record is the persisted result of one (scene, language) render.
type Record struct {
	Page       string    `json:"page"`
	Scene      int       `json:"scene"`
	Language   string    `json:"language"`
	StorageID  string    `json:"storage_id"`
	PreviousID string    `json:"previous_id,omitempty"`
	Output     Output    `json:"output"`
	RenderedAt time.Time `json:"rendered_at"`
}

// NewRecord captures a render result.
func NewRecord(page string, p Payload, out Output, at time.Time) *Record {
	rec := &Record{
		Page:       page,
		Language:   p.Language,
		Output:     out,
		RenderedAt: at.UTC(),
	}
	if p.Storage != nil {
		rec.Scene = p.Storage.Scene()
		rec.StorageID = p.Storage.ID().String()
	}
	if p.Previous != nil {
		rec.PreviousID = p.Previous.ID().String()
	}
	return rec
}

// SortRecords orders records by scene index, then language.
func SortRecords(records []*Record) {
	slices.SortFunc(records, func(a, b *Record) int {
		if c := cmp.Compare(a.Scene, b.Scene); c != 0 {
			return c
		}
		return cmp.Compare(a.Language, b.Language)
	})
}
