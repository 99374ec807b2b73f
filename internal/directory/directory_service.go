package directory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MichelleArumemi/EmployeeMS/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ProfileKeyPrefix = "directory:profile:"
	profileCacheTTL  = time.Hour
)

func GetProfileKey(id string) string {
	return ProfileKeyPrefix + id
}

type Service interface {
	// Profile returns one profile, served from Redis when cached.
	Profile(ctx context.Context, id uuid.UUID) (ProfileResponse, error)
	// Profiles resolves many ids in one query. Unknown ids are absent from the map.
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProfileResponse, error)
	Invalidate(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("directory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Profile(ctx context.Context, id uuid.UUID) (ProfileResponse, error) {
	cacheKey := GetProfileKey(id.String())

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp ProfileResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToResponse(*p)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, profileCacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Debug("directory profile lookup failed",
			zap.String("profile_id", id.String()),
			zap.Error(err),
		)
		return ProfileResponse{}, err
	}

	return v.(ProfileResponse), nil
}

func (s *service) Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProfileResponse, error) {
	out := make(map[uuid.UUID]ProfileResponse, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	profiles, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		s.logger.Error("directory batch lookup failed", zap.Int("ids", len(unique)), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	for _, p := range profiles {
		out[p.ID] = mapToResponse(p)
	}
	return out, nil
}

func (s *service) Invalidate(ctx context.Context, id string) error {
	if s.rdb == nil {
		return nil
	}

	cacheKey := GetProfileKey(id)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate directory profile cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
		return err
	}
	return nil
}
