package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"census/internal/citizens/models"
	id "census/pkg/domain"
	"census/pkg/platform/sentinel"
)

const (
	redisImportKeyPrefix = "census:import:"
	redisImportIndexKey  = "census:imports"
)

// RedisStore keeps each import as a JSON string and tracks ids in a sorted set
// scored by id.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisImportKey(importID id.ImportID) string {
	return redisImportKeyPrefix + importKey(importID)
}

// Create reads the highest id under WATCH and writes the record and index in one
// MULTI. A concurrent creator aborts the transaction and we retry.
func (s *RedisStore) Create(ctx context.Context, citizens []models.Citizen) (id.ImportID, error) {
	citizens = models.CloneCitizens(citizens)
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		var importID id.ImportID
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			top, err := tx.ZRevRangeWithScores(ctx, redisImportIndexKey, 0, 0).Result()
			if err != nil {
				return fmt.Errorf("read import index: %w", err)
			}
			importID = 1
			if len(top) > 0 {
				importID = id.ImportID(int64(top[0].Score)) + 1
			}
			payload, err := encodeImport(importID, citizens)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, redisImportKey(importID), payload, 0)
				pipe.ZAdd(ctx, redisImportIndexKey, redis.Z{Score: float64(importID), Member: importKey(importID)})
				return nil
			})
			return err
		}, redisImportIndexKey)
		if err == nil {
			return importID, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return 0, fmt.Errorf("create import: %w", err)
		}
	}
	return 0, fmt.Errorf("create import: %w", sentinel.ErrConflict)
}

func (s *RedisStore) Get(ctx context.Context, importID id.ImportID) (*models.Import, error) {
	payload, err := s.client.Get(ctx, redisImportKey(importID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get import: %w", err)
	}
	return decodeImport(payload)
}

// Replace relies on SET XX so a missing import is never created.
func (s *RedisStore) Replace(ctx context.Context, importID id.ImportID, citizens []models.Citizen) error {
	payload, err := encodeImport(importID, models.CloneCitizens(citizens))
	if err != nil {
		return err
	}
	ok, err := s.client.SetXX(ctx, redisImportKey(importID), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("replace import: %w", err)
	}
	if !ok {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]*models.Import, error) {
	members, err := s.client.ZRange(ctx, redisImportIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list import index: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		importID, err := parseImportKey(m)
		if err != nil {
			return nil, err
		}
		keys = append(keys, redisImportKey(importID))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}

	out := make([]*models.Import, 0, len(values))
	for i, v := range values {
		payload, ok := v.(string)
		if !ok {
			// index entry without a record; skip it
			continue
		}
		imp, err := decodeImport([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		out = append(out, imp)
	}
	return out, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
