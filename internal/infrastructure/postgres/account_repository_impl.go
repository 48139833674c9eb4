package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/user-profile-service/internal/domain/apperr"
	"github.com/oksasatya/user-profile-service/internal/domain/entity"
	"github.com/oksasatya/user-profile-service/internal/domain/repository"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MediaStore is what the repository needs from object storage: placeholder
// URLs for new accounts and cleanup of replaced or deleted objects.
type MediaStore interface {
	DefaultURL(kind entity.MediaKind) string
	DeleteObject(ctx context.Context, url string, kind entity.MediaKind)
}

type AccountRepository struct {
	pool  *pgxpool.Pool
	media MediaStore
}

func NewAccountRepository(pool *pgxpool.Pool, media MediaStore) *AccountRepository {
	return &AccountRepository{pool: pool, media: media}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, in entity.NewAccountInput) (string, string, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return "", "", err
	}
	avatarURL := r.media.DefaultURL(entity.MediaAvatar)
	backPadURL := r.media.DefaultURL(entity.MediaBackPad)

	var id string
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cityID, err := resolveCity(ctx, tx, in.City)
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO users_accounts (username, password, email)
			VALUES ($1, $2, $3)
			RETURNING id::text
		`, in.Username, hash, in.Email).Scan(&id); err != nil {
			return err
		}

		b := &pgx.Batch{}
		b.Queue(`
			INSERT INTO users_profiles (account_id, first_name, last_name, description, gender, date_of_birth, city_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, in.FirstName, in.LastName, in.Description, string(in.Gender), dateOrNull(in.DateOfBirth), cityID)
		b.Queue(`INSERT INTO users_avatars (account_id, media_url) VALUES ($1, $2)`, id, avatarURL)
		b.Queue(`INSERT INTO users_back_pads (account_id, media_url) VALUES ($1, $2)`, id, backPadURL)
		b.Queue(`INSERT INTO account_statistics (account_id, total_events, total_friends) VALUES ($1, 0, 0)`, id)
		return tx.SendBatch(ctx, b).Close()
	})
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return "", "", apperr.Conflict("username already exists")
		}
		return "", "", fmt.Errorf("create account: %w", err)
	}
	return id, avatarURL, nil
}

func (r *AccountRepository) GetAccountByID(ctx context.Context, id string) (*entity.Account, error) {
	var acc *entity.Account
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := pgx.BeginTxFunc(ctx, r.pool, opts, func(tx pgx.Tx) error {
		b := &pgx.Batch{}
		b.Queue(`
			SELECT a.id::text, a.username, a.password, a.email, a.is_open_account, a.prime_status, a.created_at,
			       p.first_name, p.last_name, p.description, p.gender, p.date_of_birth,
			       c.id, c.name, c.region_id, c.federal_district_id, rg.name, fd.name
			FROM users_accounts a
			JOIN users_profiles p ON p.account_id = a.id
			LEFT JOIN cities c ON c.id = p.city_id
			LEFT JOIN regions rg ON rg.id = c.region_id
			LEFT JOIN federal_districts fd ON fd.id = c.federal_district_id
			WHERE a.id = $1
		`, id)
		b.Queue(`
			SELECT id, media_url, created_at
			FROM users_avatars
			WHERE account_id = $1
			ORDER BY created_at DESC, id DESC
		`, id)
		b.Queue(`SELECT id, media_url, created_at FROM users_back_pads WHERE account_id = $1`, id)
		b.Queue(`SELECT total_events, total_friends FROM account_statistics WHERE account_id = $1`, id)
		b.Queue(`
			SELECT c.id, c.category_name
			FROM users_favourites_categories uc
			JOIN categories c ON c.id = uc.category_id
			WHERE uc.account_id = $1
			ORDER BY c.id
		`, id)

		res := tx.SendBatch(ctx, b)
		defer func() { _ = res.Close() }()

		a, err := scanAccount(res.QueryRow())
		if err != nil {
			return err
		}

		rows, err := res.Query()
		if err != nil {
			return err
		}
		a.Avatars, err = pgx.CollectRows(rows, scanMedia)
		if err != nil {
			return err
		}

		if err := res.QueryRow().Scan(&a.BackPad.ID, &a.BackPad.MediaURL, &a.BackPad.CreatedAt); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if err := res.QueryRow().Scan(&a.Statistics.TotalEvents, &a.Statistics.TotalFriends); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		rows, err = res.Query()
		if err != nil {
			return err
		}
		a.Categories, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Category, error) {
			var c entity.Category
			err := row.Scan(&c.ID, &c.Name)
			return c, err
		})
		if err != nil {
			return err
		}
		acc = a
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, changes entity.ProfileChanges) error {
	if changes.Empty() {
		return nil
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		args := []any{id}
		var sets []string
		set := func(col string, v any) {
			args = append(args, v)
			sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
		}
		if changes.FirstName != nil {
			set("first_name", *changes.FirstName)
		}
		if changes.LastName != nil {
			set("last_name", *changes.LastName)
		}
		if changes.Description != nil {
			set("description", *changes.Description)
		}
		if changes.Gender != nil {
			set("gender", string(*changes.Gender))
		}
		if changes.DateOfBirth != nil {
			set("date_of_birth", dateOrNull(*changes.DateOfBirth))
		}
		if changes.City != nil {
			cityID, err := resolveCity(ctx, tx, *changes.City)
			if err != nil {
				return err
			}
			set("city_id", cityID)
		}
		_, err := tx.Exec(ctx, `UPDATE users_profiles SET `+strings.Join(sets, ", ")+` WHERE account_id = $1`, args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// DeleteAccount removes the account; the schema cascades to every dependent row.
// Uploaded media objects are cleaned up after commit.
func (r *AccountRepository) DeleteAccount(ctx context.Context, id string) error {
	var avatars []string
	var backPad string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT media_url FROM users_avatars WHERE account_id = $1`, id)
		if err != nil {
			return err
		}
		avatars, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, `SELECT media_url FROM users_back_pads WHERE account_id = $1`, id).Scan(&backPad)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM users_accounts WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	for _, u := range avatars {
		r.media.DeleteObject(ctx, u, entity.MediaAvatar)
	}
	if backPad != "" {
		r.media.DeleteObject(ctx, backPad, entity.MediaBackPad)
	}
	return nil
}

func (r *AccountRepository) AddAvatar(ctx context.Context, accountID, mediaURL string) (string, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO users_avatars (account_id, media_url) VALUES ($1, $2)`, accountID, mediaURL)
		return err
	})
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return "", apperr.NotFound("user not found")
		}
		return "", fmt.Errorf("add avatar: %w", err)
	}
	return mediaURL, nil
}

func (r *AccountRepository) DeleteAvatar(ctx context.Context, avatarID int64, accountID string) (string, error) {
	var deleted string
	var newest *string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			DELETE FROM users_avatars
			WHERE id = $1 AND account_id = $2
			RETURNING media_url
		`, avatarID, accountID).Scan(&deleted)
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, `
			SELECT media_url
			FROM users_avatars
			WHERE account_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		`, accountID).Scan(&newest)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("avatar not found")
	}
	if err != nil {
		return "", fmt.Errorf("delete avatar: %w", err)
	}

	r.media.DeleteObject(ctx, deleted, entity.MediaAvatar)

	if newest == nil {
		return r.media.DefaultURL(entity.MediaAvatar), nil
	}
	return *newest, nil
}

func (r *AccountRepository) ReplaceBackPad(ctx context.Context, accountID, mediaURL string) (string, error) {
	var previous string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT media_url FROM users_back_pads WHERE account_id = $1 FOR UPDATE`, accountID).Scan(&previous)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE users_back_pads
			SET media_url = $2, created_at = now()
			WHERE account_id = $1
		`, accountID, mediaURL)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("user not found")
	}
	if err != nil {
		return "", fmt.Errorf("replace back pad: %w", err)
	}
	if previous != mediaURL {
		r.media.DeleteObject(ctx, previous, entity.MediaBackPad)
	}
	return mediaURL, nil
}

func (r *AccountRepository) CheckUsernameAvailable(ctx context.Context, username string) (bool, error) {
	var available bool
	err := r.pool.QueryRow(ctx, `
		SELECT NOT EXISTS (SELECT 1 FROM users_accounts WHERE username = $1)
	`, username).Scan(&available)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return available, nil
}

// AdjustStatistic moves a counter by one with a single atomic UPDATE, so
// concurrent calls never lose increments. Counters do not go below zero.
func (r *AccountRepository) AdjustStatistic(ctx context.Context, accountID string, field entity.Statistic, increase bool) error {
	var col string
	switch field {
	case entity.StatisticEvents:
		col = "total_events"
	case entity.StatisticFriends:
		col = "total_friends"
	default:
		return apperr.Validation("unknown statistic field", map[string]string{"field": string(field)})
	}
	delta := int64(-1)
	if increase {
		delta = 1
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE account_statistics SET `+col+` = GREATEST(`+col+` + $2, 0) WHERE account_id = $1`,
		accountID, delta)
	if err != nil {
		return fmt.Errorf("adjust statistic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// resolveCity returns nil when name does not match a seeded city.
func resolveCity(ctx context.Context, tx pgx.Tx, name string) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM cities WHERE name = $1 ORDER BY id LIMIT 1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	var (
		gender                       string
		dob                          pgtype.Date
		cityID, regionID, districtID *int64
		cityName, region, district   *string
	)
	err := row.Scan(
		&a.ID, &a.Username, &a.Password, &a.Email, &a.IsOpenAccount, &a.PrimeStatus, &a.CreatedAt,
		&a.Profile.FirstName, &a.Profile.LastName, &a.Profile.Description, &gender, &dob,
		&cityID, &cityName, &regionID, &districtID, &region, &district,
	)
	if err != nil {
		return nil, err
	}
	a.Profile.Gender = entity.Gender(gender)
	if dob.Valid {
		a.Profile.DateOfBirth = dob.Time
	}
	if cityID != nil {
		a.Profile.City = &entity.City{
			ID:                *cityID,
			Name:              deref(cityName),
			RegionID:          deref(regionID),
			FederalDistrictID: deref(districtID),
			Region:            deref(region),
			FederalDistrict:   deref(district),
		}
	}
	return a, nil
}

func scanMedia(row pgx.CollectableRow) (entity.Media, error) {
	var m entity.Media
	err := row.Scan(&m.ID, &m.MediaURL, &m.CreatedAt)
	return m, err
}

func dateOrNull(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
