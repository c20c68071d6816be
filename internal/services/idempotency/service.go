// Package idempotency implements the (scope, key) response replay cache.
//
// The cache is an optimization for client retries; it is not the mechanism
// that prevents double settlement. That guarantee lives in the transfer
// creation path's uniqueness constraint. A record that cannot be serialized
// or deserialized is fatal: a corrupted entry must never be replayed as a
// successful response.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pixwallet/internal/models"
	"pixwallet/internal/repositories"
	"pixwallet/internal/repositories/cache"

	"go.uber.org/zap"
)

// Service stores and replays serialized responses per (scope, key).
type Service interface {
	// Get loads a stored response into dest. The bool result reports
	// whether a record exists.
	Get(ctx context.Context, scope, key string, dest interface{}) (bool, error)
	// Put persists the response for future replays of the same (scope, key).
	Put(ctx context.Context, scope, key string, response interface{}) error
}

type service struct {
	records repositories.IdempotencyRecordRepository
	cache   *cache.Service
	log     *zap.Logger
}

// NewService creates the replay cache. Postgres holds the durable records;
// the redis cache, when present, fronts reads.
func NewService(records repositories.IdempotencyRecordRepository, cacheSvc *cache.Service, log *zap.Logger) Service {
	if records == nil {
		panic("idempotency record repository is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{records: records, cache: cacheSvc, log: log}
}

func (s *service) Get(ctx context.Context, scope, key string, dest interface{}) (bool, error) {
	var payload string

	if s.cache != nil {
		found, err := s.cache.Get(ctx, s.cacheKey(scope, key), &payload)
		if err == nil && found {
			if err := json.Unmarshal([]byte(payload), dest); err != nil {
				return false, fmt.Errorf("%w: %v", ErrPayloadCorrupt, err)
			}
			return true, nil
		}
	}

	record, err := s.records.GetByScopeAndKey(ctx, scope, key)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load idempotency record: %w", err)
	}

	if err := json.Unmarshal([]byte(record.ResponsePayload), dest); err != nil {
		s.log.Error("idempotency payload corrupt",
			zap.String("scope", scope),
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
		return false, fmt.Errorf("%w: %v", ErrPayloadCorrupt, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cacheKey(scope, key), record.ResponsePayload); err != nil {
			s.log.Warn("failed to cache idempotency record", zap.Error(err))
		}
	}
	return true, nil
}

func (s *service) Put(ctx context.Context, scope, key string, response interface{}) error {
	payload, err := json.Marshal(response)
	if err != nil {
		s.log.Error("cannot serialize idempotency response",
			zap.String("scope", scope),
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrPayloadCorrupt, err)
	}

	record := &models.IdempotencyRecord{
		Scope:           scope,
		IdempotencyKey:  key,
		ResponsePayload: string(payload),
	}
	if err := s.records.Create(ctx, record); err != nil {
		// A concurrent request already stored the same response.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("failed to persist idempotency record: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cacheKey(scope, key), string(payload)); err != nil {
			s.log.Warn("failed to cache idempotency record", zap.Error(err))
		}
	}
	return nil
}

func (s *service) cacheKey(scope, key string) string {
	if s.cache == nil {
		return ""
	}
	return s.cache.Key("idempotency", scope, key)
}
