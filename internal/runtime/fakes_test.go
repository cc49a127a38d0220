package runtime_test

import (
	"context"
	"time"

	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/ports"
)

type recordingStore struct {
	records []*domain.Record
	err     error
}

func (s *recordingStore) Save(_ context.Context, rec *domain.Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *recordingStore) Load(_ context.Context, page string, scene int, language string) (*domain.Record, error) {
	for _, r := range s.records {
		if r.Page == page && r.Scene == scene && r.Language == language {
			return r, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (s *recordingStore) List(_ context.Context, page string) ([]*domain.Record, error) {
	return s.records, nil
}

func (s *recordingStore) Delete(_ context.Context, page string) error {
	s.records = nil
	return nil
}

type recordingLocker struct {
	locked   []string
	ttl      time.Duration
	released int
	err      error
}

func (l *recordingLocker) Lock(_ context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locked = append(l.locked, key)
	l.ttl = ttl
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}
