package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// FriendRepository persists directed friend edges.
type FriendRepository struct {
	base
}

func (r *FriendRepository) Create(ctx context.Context, userID, friendID int64) (int64, error) {
	id, err := r.insert(ctx, `
		INSERT INTO friends (user_id, friend_id, created_at)
		VALUES (?, ?, ?)
		RETURNING id`,
		userID, friendID, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add friend: %w", err)
	}
	return id, nil
}

func (r *FriendRepository) Exists(ctx context.Context, userID, friendID int64) (bool, error) {
	var n int
	err := r.queryRow(ctx,
		`SELECT COUNT(*) FROM friends WHERE user_id = ? AND friend_id = ?`,
		userID, friendID,
	).Scan(&n)
	if err != nil {
		return false, dbError(err)
	}
	return n > 0, nil
}

func (r *FriendRepository) Delete(ctx context.Context, userID, friendID int64) (int64, error) {
	n, err := r.exec(ctx,
		`DELETE FROM friends WHERE user_id = ? AND friend_id = ?`,
		userID, friendID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to remove friend: %w", err)
	}
	return n, nil
}

// List returns the users on the far side of userID's outgoing edges.
func (r *FriendRepository) List(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	rows, err := r.query(ctx, `
		SELECT u.id, u.name, u.email
		FROM friends f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = ?
		ORDER BY f.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return scanUserSummaries(rows)
}
