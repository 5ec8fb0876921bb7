package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/event-planner-service/internal/config"
	"github.com/couchcryptid/event-planner-service/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "planner:session:"

// NewClient creates a Redis client from the service configuration.
func NewClient(cfg *config.Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// TaskStateRepository persists a session's completed tasks as a Redis hash
// keyed "planner:session:{id}:tasks" with one "monthsOut:taskIndex" field per
// completed task. It implements planner.TaskStateRepository.
type TaskStateRepository struct {
	rdb    goredis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewTaskStateRepository creates a repository whose hashes expire ttl after
// the last write.
func NewTaskStateRepository(rdb goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *TaskStateRepository {
	return &TaskStateRepository{rdb: rdb, ttl: ttl, logger: logger}
}

func hashKey(sessionID string) string {
	return keyPrefix + sessionID + ":tasks"
}

// Load returns the completed tasks recorded for sessionID. An unknown session
// yields an empty map.
func (r *TaskStateRepository) Load(ctx context.Context, sessionID string) (map[domain.TaskKey]bool, error) {
	fields, err := r.rdb.HGetAll(ctx, hashKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load task state: %w", err)
	}

	state := make(map[domain.TaskKey]bool, len(fields))
	for field := range fields {
		key, err := domain.ParseTaskKey(field)
		if err != nil {
			r.logger.Warn("skipping unparseable task field", "session_id", sessionID, "field", field, "error", err)
			continue
		}
		state[key] = true
	}
	return state, nil
}

// Save records one task flag. False removes the field since unseen tasks read
// as not completed.
func (r *TaskStateRepository) Save(ctx context.Context, sessionID string, key domain.TaskKey, completed bool) error {
	hk := hashKey(sessionID)

	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		if completed {
			pipe.HSet(ctx, hk, key.String(), 1)
		} else {
			pipe.HDel(ctx, hk, key.String())
		}
		pipe.Expire(ctx, hk, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save task state: %w", err)
	}
	return nil
}

// Ping checks connectivity; used for readiness.
func (r *TaskStateRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
