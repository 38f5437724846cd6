package postgres

import (
	"context"
	"errors"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, picture_url, created_at, last_login`

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u          domain.User
		name       pgtype.Text
		pictureURL pgtype.Text
		lastLogin  pgtype.Timestamptz
	)
	if err := row.Scan(&u.ID, &u.Auth0ID, &u.Email, &name, &pictureURL, &u.CreatedAt, &lastLogin); err != nil {
		return nil, err
	}
	u.Name = pgTextToPtr(name)
	u.PictureURL = pgTextToPtr(pictureURL)
	u.LastLogin = pgTimestamptzToPtr(lastLogin)
	return &u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByAuth0ID retrieves a user by their Auth0 subject
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateOrGetByAuth0ID inserts a user row for the Auth0 subject, or returns
// the existing row. The upsert refreshes email/name/picture from the token
// claims on every login.
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, auth0_id, email, name, picture_url)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (auth0_id) DO UPDATE SET
		   email = EXCLUDED.email,
		   name = COALESCE(EXCLUDED.name, users.name),
		   picture_url = COALESCE(EXCLUDED.picture_url, users.picture_url)
		 RETURNING `+userColumns,
		uuid.New(), auth0ID, email, ptrToPgText(name), ptrToPgText(pictureURL))
	return scanUser(row)
}

// Update updates a user's mutable profile fields
func (r *UserRepository) Update(user *domain.User) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, picture_url = $3
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID, ptrToPgText(user.Name), ptrToPgText(user.PictureURL))
	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return updated, nil
}

// TouchLastLogin stamps the user's last login time
func (r *UserRepository) TouchLastLogin(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
