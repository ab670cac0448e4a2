package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

var ErrResultNotFound = errors.New("game result not found")

const (
	resultKeyPrefix = "archive:game:"
	recentKey       = "archive:recent"

	// recentLimit bounds the recent-games list; older ids are trimmed away.
	recentLimit = 100
)

// ArchiveRepository records summaries of finished games. Live session state
// is never stored here.
type ArchiveRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	GetByID(ctx context.Context, id string) (*entity.GameResult, error)
	Recent(ctx context.Context, limit int) ([]*entity.GameResult, error)
}

type dbArchive struct {
	client *redis.Client
}

func NewArchiveRepository(client *redis.Client) ArchiveRepository {
	return &dbArchive{
		client: client,
	}
}

func (that *dbArchive) Save(ctx context.Context, result *entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal game result: %w", err)
	}

	resultKey := resultKeyPrefix + result.ID
	if err = that.client.Set(ctx, resultKey, resultJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game result: %w", err)
	}

	if err = that.client.LPush(ctx, recentKey, result.ID).Err(); err != nil {
		return fmt.Errorf("failed to push recent game id: %w", err)
	}

	if err = that.client.LTrim(ctx, recentKey, 0, recentLimit-1).Err(); err != nil {
		return fmt.Errorf("failed to trim recent games: %w", err)
	}

	return nil
}

func (that *dbArchive) GetByID(ctx context.Context, id string) (*entity.GameResult, error) {
	resultKey := resultKeyPrefix + id

	response, err := that.client.Get(ctx, resultKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrResultNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game result: %w", err)
	}

	var result entity.GameResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game result: %w", err)
	}

	return &result, nil
}

func (that *dbArchive) Recent(ctx context.Context, limit int) ([]*entity.GameResult, error) {
	if limit <= 0 || limit > recentLimit {
		limit = recentLimit
	}

	ids, err := that.client.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to range recent games: %w", err)
	}

	results := make([]*entity.GameResult, 0, len(ids))
	for _, id := range ids {
		result, err := that.GetByID(ctx, id)
		if errors.Is(err, ErrResultNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}
