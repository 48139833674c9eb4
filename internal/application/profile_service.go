package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-profile-service/internal/domain/apperr"
	"github.com/oksasatya/user-profile-service/internal/domain/entity"
	repo "github.com/oksasatya/user-profile-service/internal/domain/repository"
	"github.com/oksasatya/user-profile-service/internal/infrastructure/community"
	"github.com/oksasatya/user-profile-service/internal/infrastructure/search"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
	"github.com/oksasatya/user-profile-service/pkg/mailer"
)

// DropLinkPrefix is where the admin drop endpoint for a fresh account lives.
const DropLinkPrefix = "/v2/users/drop/"

type Service struct {
	Repo       repo.AccountRepository
	Reader     *ProfileReader
	Media      MediaStore
	Dispatcher *Dispatcher
	Index      ProfileIndexer
	Logger     logrus.FieldLogger
}

func NewService(repo repo.AccountRepository, reader *ProfileReader, media MediaStore, dispatcher *Dispatcher, index ProfileIndexer, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &Service{
		Repo:       repo,
		Reader:     reader,
		Media:      media,
		Dispatcher: dispatcher,
		Index:      index,
		Logger:     logger,
	}
}

type CreateAccountInput struct {
	entity.NewAccountInput
	FirebaseToken string
}

type CreateAccountResult struct {
	ID          string `json:"id"`
	ConfirmCode int    `json:"confirmCode"`
	DropLink    string `json:"dropLink"`
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("invalid user id", map[string]string{"id": "must be a valid UUID"})
	}
	return nil
}

func (s *Service) CheckUsername(ctx context.Context, username string) (bool, error) {
	return s.Repo.CheckUsernameAvailable(ctx, username)
}

// CreateAccount persists the account and, once committed, sends the verification
// code, registers the push token, announces the account to the community service
// and indexes it for search.
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (*CreateAccountResult, error) {
	// Advisory only; the unique constraint decides races.
	ok, err := s.Repo.CheckUsernameAvailable(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Conflict("username already exists")
	}

	code, err := helpers.GenVerificationCode()
	if err != nil {
		return nil, err
	}
	id, avatarURL, err := s.Repo.CreateAccount(ctx, in.NewAccountInput)
	if err != nil {
		return nil, err
	}

	s.Dispatcher.SendVerification(ctx, mailer.EmailJob{
		Email:            in.Email,
		Target:           mailer.TargetVerification,
		Username:         in.Username,
		VerificationCode: strconv.Itoa(code),
	})
	if in.FirebaseToken != "" {
		s.Dispatcher.RegisterDevice(ctx, PushTokenMessage{
			FirebaseToken: in.FirebaseToken,
			Username:      in.Username,
			UserID:        id,
			MediaURL:      avatarURL,
		})
	}
	s.Dispatcher.RegisterWithCommunity(ctx, community.Registration{
		ID:        id,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		MediaURL:  avatarURL,
	})
	s.Dispatcher.IndexProfile(ctx, search.ProfileDocument{
		ID:        id,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		City:      in.City,
		MediaURL:  avatarURL,
	})

	return &CreateAccountResult{ID: id, ConfirmCode: code, DropLink: DropLinkPrefix + id}, nil
}

// GetProfile returns the cached view of the account.
func (s *Service) GetProfile(ctx context.Context, id string) (*ProfileView, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	return s.Reader.Get(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, changes entity.ProfileChanges) error {
	if err := validID(id); err != nil {
		return err
	}
	if changes.Empty() {
		return nil
	}
	if err := s.Repo.UpdateProfile(ctx, id, changes); err != nil {
		return err
	}
	s.reindex(ctx, id)
	return nil
}

func (s *Service) reindex(ctx context.Context, id string) {
	if s.Index == nil {
		return
	}
	s.Dispatcher.Go(ctx, "search.reindex", func(ctx context.Context) error {
		acc, err := s.Repo.GetAccountByID(ctx, id)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil
			}
			return err
		}
		return s.Index.Index(ctx, profileDocument(acc))
	})
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := s.Repo.DeleteAccount(ctx, id); err != nil {
		return err
	}
	s.Dispatcher.NotifyDropped(ctx, id)
	return nil
}

// DropAccount is the service-side removal of an account that never got verified.
func (s *Service) DropAccount(ctx context.Context, id string) error {
	return s.DeleteAccount(ctx, id)
}

func (s *Service) AddAvatar(ctx context.Context, accountID string, data []byte) (string, error) {
	if err := validID(accountID); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", apperr.Validation("empty file", map[string]string{"avatar": "is required"})
	}
	suffix, err := helpers.GenMediaSuffix()
	if err != nil {
		return "", err
	}
	fileName := fmt.Sprintf("%s-avatar-%s.png", accountID, suffix)
	s.Media.Upload(ctx, data, fileName, entity.MediaAvatar)

	url := s.Media.MediaURL(fileName, entity.MediaAvatar)
	link, err := s.Repo.AddAvatar(ctx, accountID, url)
	if err != nil {
		// Nothing references the fresh object.
		s.Media.DeleteObject(ctx, url, entity.MediaAvatar)
		return "", err
	}
	s.Dispatcher.NotifyMediaChanged(ctx, MediaChangedMessage{Target: TargetAvatar, UserID: accountID, NewMediaURL: link})
	s.reindex(ctx, accountID)
	return link, nil
}

// DeleteAvatar returns the avatar that is current after the deletion.
func (s *Service) DeleteAvatar(ctx context.Context, accountID string, avatarID int64) (string, error) {
	if err := validID(accountID); err != nil {
		return "", err
	}
	next, err := s.Repo.DeleteAvatar(ctx, avatarID, accountID)
	if err != nil {
		return "", err
	}
	s.Dispatcher.NotifyMediaChanged(ctx, MediaChangedMessage{Target: TargetAvatar, UserID: accountID, NewMediaURL: next})
	s.reindex(ctx, accountID)
	return next, nil
}

func (s *Service) ReplaceBackPad(ctx context.Context, accountID string, data []byte) (string, error) {
	if err := validID(accountID); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", apperr.Validation("empty file", map[string]string{"back_pad": "is required"})
	}
	// A fresh key per upload keeps the new object clear of the old one's cleanup.
	suffix, err := helpers.GenMediaSuffix()
	if err != nil {
		return "", err
	}
	fileName := fmt.Sprintf("%s-back_pad-%s.png", accountID, suffix)
	s.Media.Upload(ctx, data, fileName, entity.MediaBackPad)

	url := s.Media.MediaURL(fileName, entity.MediaBackPad)
	link, err := s.Repo.ReplaceBackPad(ctx, accountID, url)
	if err != nil {
		s.Media.DeleteObject(ctx, url, entity.MediaBackPad)
		return "", err
	}
	s.Dispatcher.NotifyMediaChanged(ctx, MediaChangedMessage{Target: TargetBackPad, UserID: accountID, NewMediaURL: link})
	return link, nil
}

func (s *Service) AppendDevice(ctx context.Context, p entity.Principal, token string) {
	s.Dispatcher.RegisterDevice(ctx, PushTokenMessage{
		FirebaseToken: token,
		Username:      p.Username,
		UserID:        p.ID,
	})
}

func (s *Service) AdjustStatistic(ctx context.Context, accountID, field string, increase bool) error {
	if err := validID(accountID); err != nil {
		return err
	}
	stat := entity.Statistic(strings.ToLower(field))
	if !stat.Valid() {
		return apperr.Validation("unknown statistic field", map[string]string{"field": "must be one of: events, friends"})
	}
	return s.Repo.AdjustStatistic(ctx, accountID, stat, increase)
}

func (s *Service) Search(ctx context.Context, q string, size int) ([]search.ProfileDocument, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperr.Validation("empty query", map[string]string{"q": "is required"})
	}
	if s.Index == nil {
		return []search.ProfileDocument{}, nil
	}
	docs, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "search unavailable", err)
	}
	return docs, nil
}
