package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fureverhome/fureverhome-go/internal/model"
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `email, name, photo_url, role, created_at`

// Upsert inserts the user or refreshes the profile fields of an existing one.
// The role is never touched. created reports whether a new row was inserted.
func (r *UserRepository) Upsert(ctx context.Context, user *model.User) (bool, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, name, photo_url, role) VALUES (?, ?, ?, ?)`,
		user.Email, user.Name, user.PhotoURL, model.RoleRegular,
	)
	if err == nil {
		return true, nil
	}
	if !isDuplicateEntryError(err) {
		return false, err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET name = IF(? = '', name, ?), photo_url = IF(? = '', photo_url, ?) WHERE email = ?`,
		user.Name, user.Name, user.PhotoURL, user.PhotoURL, user.Email,
	)
	return false, err
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns every user, newest first.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// SetRole changes a user's role.
func (r *UserRepository) SetRole(ctx context.Context, email string, role model.Role) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE email = ?`, role, email)
	if err != nil {
		return err
	}
	return affectedOr(result, ErrUserNotFound)
}

func scanUser(s rowScanner) (*model.User, error) {
	u := &model.User{}
	if err := s.Scan(&u.Email, &u.Name, &u.PhotoURL, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}
