package repository

import (
	"context"

	"github.com/oksasatya/user-profile-service/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/account_repository_mock.go -package=mocks . AccountRepository

// AccountRepository defines the transactional operations over accounts and their dependents.
// Every method runs in its own transaction; partial writes are never visible.
type AccountRepository interface {
	// CreateAccount inserts the account, profile, default avatar, default back pad and
	// zeroed statistics atomically. A taken username yields an apperr Conflict.
	CreateAccount(ctx context.Context, in entity.NewAccountInput) (id string, avatarURL string, err error)
	GetAccountByID(ctx context.Context, id string) (*entity.Account, error)
	// UpdateProfile is a no-op when id matches no account.
	UpdateProfile(ctx context.Context, id string, changes entity.ProfileChanges) error
	// DeleteAccount cascades to all dependents and is idempotent.
	DeleteAccount(ctx context.Context, id string) error
	AddAvatar(ctx context.Context, accountID, mediaURL string) (string, error)
	// DeleteAvatar removes an avatar owned by accountID and returns the newest remaining
	// avatar URL (the default avatar when none remain).
	DeleteAvatar(ctx context.Context, avatarID int64, accountID string) (string, error)
	ReplaceBackPad(ctx context.Context, accountID, mediaURL string) (string, error)
	CheckUsernameAvailable(ctx context.Context, username string) (bool, error)
	AdjustStatistic(ctx context.Context, accountID string, field entity.Statistic, increase bool) error
}
