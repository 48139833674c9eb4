package media

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-profile-service/internal/domain/entity"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
)

const (
	DefaultAvatarKey  = "default-avatar-dark.png"
	DefaultBackPadKey = "default-back-pad-dark.png"

	opTimeout = 15 * time.Second
)

// Config names the buckets and the public link prefixes they are served from.
type Config struct {
	AvatarsBucket  string
	BackPadsBucket string
	AvatarsLink    string
	BackPadsLink   string
}

// Store resolves media URLs and manages the objects behind them.
// Upload and delete failures are logged and swallowed.
type Store struct {
	storage helpers.ObjectStorage
	cfg     Config
	logger  *logrus.Logger
}

func NewStore(storage helpers.ObjectStorage, cfg Config, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	cfg.AvatarsLink = strings.TrimRight(cfg.AvatarsLink, "/")
	cfg.BackPadsLink = strings.TrimRight(cfg.BackPadsLink, "/")
	return &Store{storage: storage, cfg: cfg, logger: logger}
}

func (s *Store) DefaultAvatarURL() string  { return s.MediaURL(DefaultAvatarKey, entity.MediaAvatar) }
func (s *Store) DefaultBackPadURL() string { return s.MediaURL(DefaultBackPadKey, entity.MediaBackPad) }

// DefaultURL returns the placeholder for kind. Placeholders are never deleted.
func (s *Store) DefaultURL(kind entity.MediaKind) string {
	if kind == entity.MediaBackPad {
		return s.DefaultBackPadURL()
	}
	return s.DefaultAvatarURL()
}

// MediaURL joins the public prefix for kind with fileName. No I/O.
func (s *Store) MediaURL(fileName string, kind entity.MediaKind) string {
	return s.link(kind) + "/" + fileName
}

// Upload puts data under fileName in the bucket for kind.
func (s *Store) Upload(ctx context.Context, data []byte, fileName string, kind entity.MediaKind) {
	if s.storage == nil {
		s.logger.WithField("key", fileName).Warn("object storage not configured, upload skipped")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.storage.PutObject(ctx, s.bucket(kind), fileName, "image/png", bytes.NewReader(data)); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"bucket": s.bucket(kind), "key": fileName}).Error("media upload failed")
	}
}

// DeleteObject removes the object behind url. Placeholders and URLs outside
// the kind's prefix are ignored.
func (s *Store) DeleteObject(ctx context.Context, url string, kind entity.MediaKind) {
	key, ok := s.keyFromURL(url, kind)
	if !ok || key == s.defaultKey(kind) {
		return
	}
	if s.storage == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.storage.DeleteObject(ctx, s.bucket(kind), key); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"bucket": s.bucket(kind), "key": key}).Error("media delete failed")
	}
}

func (s *Store) keyFromURL(url string, kind entity.MediaKind) (string, bool) {
	prefix := s.link(kind) + "/"
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}

func (s *Store) link(kind entity.MediaKind) string {
	if kind == entity.MediaBackPad {
		return s.cfg.BackPadsLink
	}
	return s.cfg.AvatarsLink
}

func (s *Store) bucket(kind entity.MediaKind) string {
	if kind == entity.MediaBackPad {
		return s.cfg.BackPadsBucket
	}
	return s.cfg.AvatarsBucket
}

func (s *Store) defaultKey(kind entity.MediaKind) string {
	if kind == entity.MediaBackPad {
		return DefaultBackPadKey
	}
	return DefaultAvatarKey
}
