package application

import (
	"context"

	"github.com/oksasatya/user-profile-service/internal/domain/entity"
	"github.com/oksasatya/user-profile-service/internal/infrastructure/community"
	"github.com/oksasatya/user-profile-service/internal/infrastructure/search"
)

//go:generate mockgen -destination=mocks/ports_mock.go -package=mocks . Publisher,CommunityRegistrar,ProfileIndexer,MediaStore

// Publisher sends a JSON event to the queue named by routingKey.
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, body any) error
}

type CommunityRegistrar interface {
	Register(ctx context.Context, reg community.Registration) error
}

type ProfileIndexer interface {
	Index(ctx context.Context, doc search.ProfileDocument) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]search.ProfileDocument, error)
}

// MediaStore resolves public URLs and manages objects. Upload and DeleteObject never fail the caller.
type MediaStore interface {
	MediaURL(fileName string, kind entity.MediaKind) string
	Upload(ctx context.Context, data []byte, fileName string, kind entity.MediaKind)
	DeleteObject(ctx context.Context, url string, kind entity.MediaKind)
}
