package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/libretto/pkg/domain"
)

// DefaultPrefix namespaces every key the adapter writes.
const DefaultPrefix = "libretto:"

// Store implements ports.OutputStore using Redis.
// Each record is a JSON string; a per-page ZSET indexes the page's records
// with their expiry as score.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for records.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func member(scene int, language string) string {
	return strconv.Itoa(scene) + "/" + language
}

func (s *Store) key(page, member string) string {
	return s.prefix + "output:" + page + ":" + member
}

func (s *Store) indexKey(page string) string {
	return s.prefix + "index:" + page
}

// Save persists the record to Redis.
func (s *Store) Save(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.Page == "" {
		return fmt.Errorf("record page cannot be empty")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	m := member(rec.Scene, rec.Language)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(rec.Page, m), data, s.ttl)

	// Score = Now + TTL. If TTL = 0, Score = far future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(rec.Page), backend.Z{Score: score, Member: m})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves a record from Redis.
func (s *Store) Load(ctx context.Context, page string, scene int, language string) (*domain.Record, error) {
	val, err := s.client.Get(ctx, s.key(page, member(scene, language))).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return decode(val)
}

func decode(val string) (*domain.Record, error) {
	var rec domain.Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

// List returns the page's live records ordered by scene, then language.
// Expired entries are pruned from the index lazily.
func (s *Store) List(ctx context.Context, page string) ([]*domain.Record, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(page), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired records: %w", err)
	}

	members, err := s.client.ZRange(ctx, s.indexKey(page), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if len(members) == 0 {
		return []*domain.Record{}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = s.key(page, m)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	records := make([]*domain.Record, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue // expired between ZRANGE and MGET
		}
		rec, err := decode(str)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	domain.SortRecords(records)
	return records, nil
}

// Delete removes every record of the page and its index.
func (s *Store) Delete(ctx context.Context, page string) error {
	members, err := s.client.ZRange(ctx, s.indexKey(page), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	pipe := s.client.Pipeline()
	for _, m := range members {
		pipe.Del(ctx, s.key(page, m))
	}
	pipe.Del(ctx, s.indexKey(page))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Pages returns the names of pages that have an index.
func (s *Store) Pages(ctx context.Context) ([]string, error) {
	var pages []string
	iter := s.client.Scan(ctx, 0, s.indexKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		pages = append(pages, strings.TrimPrefix(iter.Val(), s.indexKey("")))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan pages: %w", err)
	}
	return pages, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
