package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-profile-service/internal/domain/repository"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
)

func profileCacheKey(id string) string {
	return "profile:" + id
}

// ProfileReader serves profile views through Redis with a fixed TTL.
// Writes never invalidate the cache; a view may be stale for up to TTL.
// Redis failures degrade to a direct repository read.
type ProfileReader struct {
	repo   repository.AccountRepository
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewProfileReader(repo repository.AccountRepository, rdb redis.Cmdable, ttl time.Duration, logger logrus.FieldLogger) *ProfileReader {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &ProfileReader{repo: repo, rdb: rdb, ttl: ttl, logger: logger, now: time.Now}
}

func (r *ProfileReader) Get(ctx context.Context, id string) (*ProfileView, error) {
	key := profileCacheKey(id)
	if r.rdb != nil && r.ttl > 0 {
		var cached ProfileView
		hit, err := helpers.RedisGetJSON(ctx, r.rdb, key, &cached)
		if err != nil {
			r.logger.WithError(err).WithField("key", key).Warn("profile cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	acc, err := r.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewProfileView(acc, r.now())

	if r.rdb != nil && r.ttl > 0 {
		if err := helpers.RedisSetJSON(ctx, r.rdb, key, view, r.ttl); err != nil {
			r.logger.WithError(err).WithField("key", key).Warn("profile cache write failed")
		}
	}
	return &view, nil
}
