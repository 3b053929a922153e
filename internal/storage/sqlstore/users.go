package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// UserRepository persists users.
type UserRepository struct {
	base
}

// Create inserts a new user and returns its id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	id, err := r.insert(ctx, `
		INSERT INTO users (name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		user.Name, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = id
	return id, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.get(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, "email = ?", email)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	err := scanOne(r.queryRow(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE `+where, arg),
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List returns every registered user.
func (r *UserRepository) List(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := r.query(ctx, `SELECT id, name, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return scanUserSummaries(rows)
}

// SearchByName returns users whose name contains name, ignoring case.
func (r *UserRepository) SearchByName(ctx context.Context, name string) ([]models.UserSummary, error) {
	rows, err := r.query(ctx, `
		SELECT id, name, email
		FROM users
		WHERE name `+r.dialect.like()+`
		ORDER BY id`,
		containsPattern(name),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return scanUserSummaries(rows)
}

func scanUserSummaries(rows *sql.Rows) ([]models.UserSummary, error) {
	defer rows.Close()

	users := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
