package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwell-app/inkwell/internal/common"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrNotFound       = errors.New("user not found")
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, version`

	args := []any{
		u.Email,
		u.Password.hash,
		u.FirstName,
		u.LastName,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *DBModel) getUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, bio, profile_picture, created_at, updated_at, version
		FROM users
		WHERE email = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.Password.hash, &u.FirstName, &u.LastName, &u.Bio, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) getUserByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, email, first_name, last_name, bio, profile_picture, created_at, updated_at, version
		FROM users
		WHERE id = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Bio, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) updateProfile(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, bio = $3, profile_picture = $4, updated_at = NOW(), version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING updated_at, version`

	args := []any{
		u.FirstName,
		u.LastName,
		u.Bio,
		u.ProfilePicture,
		u.ID,
		u.Version,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrNotFound
		default:
			return err
		}
	}

	return nil
}

// getActivityCounts returns the number of blogs and comments authored by the
// user, derived at read time for the profile view.
func (m *DBModel) getActivityCounts(ctx context.Context, id int) (blogs int, comments int, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM blogs WHERE user_id = $1),
			(SELECT COUNT(*) FROM comments WHERE user_id = $1)`

	err = m.db.QueryRowContext(ctx, query, id).Scan(&blogs, &comments)
	if err != nil {
		return 0, 0, err
	}

	return blogs, comments, nil
}
