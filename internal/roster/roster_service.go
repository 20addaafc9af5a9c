// Package roster answers the read-only roster questions used to scope list queries.
package roster

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const ChildrenKeyPrefix = "roster:children:"

func ChildrenKey(parentID string) string {
	return ChildrenKeyPrefix + parentID
}

//go:generate mockgen -source=roster_service.go -destination=mock/roster_service_mock.go -package=mock
type Service interface {
	ChildrenOf(ctx context.Context, parentID string) ([]string, error)
	Invalidate(ctx context.Context, parentID string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	ttl    time.Duration
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewService caches lookups in redis for ttl. rdb may be nil, in which case every
// call goes to the store (still coalesced per parent).
func NewService(repo Repository, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("roster.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("roster.service")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &service{repo: repo, rdb: rdb, ttl: ttl, sf: &singleflight.Group{}, logger: l}
}

func (s *service) ChildrenOf(ctx context.Context, parentID string) ([]string, error) {
	cacheKey := ChildrenKey(parentID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var ids []string
			if err := json.Unmarshal([]byte(cached), &ids); err == nil {
				return ids, nil
			}
		}
	}

	// Singleflight: satu query per parent walaupun banyak request bersamaan.
	// The shared lookup must outlive a cancelled first caller.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		ids, err := s.repo.ChildIDs(ctx, parentID)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(ids); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, s.ttl).Err(); err != nil {
					s.logger.Warn("failed to cache roster", zap.String("parent_id", parentID), zap.Error(err))
				}
			}
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]string), nil
}

func (s *service) Invalidate(ctx context.Context, parentID string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, ChildrenKey(parentID)).Err()
}
