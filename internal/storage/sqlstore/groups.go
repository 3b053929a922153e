package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// GroupRepository persists groups and their membership rows.
type GroupRepository struct {
	base
}

// Create inserts the group row. Members are written separately so the caller
// can include them in the same transaction.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) (int64, error) {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	id, err := r.insert(ctx, `
		INSERT INTO groups (name, created_by, created_at)
		VALUES (?, ?, ?)
		RETURNING id`,
		group.Name, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create group: %w", err)
	}

	group.ID = id
	return id, nil
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	if _, err := r.exec(ctx,
		`INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`,
		groupID, userID,
	); err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var n int
	err := r.queryRow(ctx,
		`SELECT COUNT(*) FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&n)
	if err != nil {
		return false, dbError(err)
	}
	return n > 0, nil
}

// Get retrieves a group with its members.
func (r *GroupRepository) Get(ctx context.Context, id int64) (*models.Group, error) {
	groups, err := r.list(ctx, `WHERE g.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("group %d: %w", id, storage.ErrNotFound)
	}
	return &groups[0], nil
}

// ListForUser returns the groups userID belongs to.
func (r *GroupRepository) ListForUser(ctx context.Context, userID int64) ([]models.Group, error) {
	return r.list(ctx,
		`WHERE g.id IN (SELECT group_id FROM group_members WHERE user_id = ?)`,
		userID,
	)
}

// SearchByName returns groups whose name contains name, ignoring case.
func (r *GroupRepository) SearchByName(ctx context.Context, name string) ([]models.Group, error) {
	return r.list(ctx, `WHERE g.name `+r.dialect.like(), containsPattern(name))
}

// list loads groups matching where together with their members in a single
// query, one row per (group, member).
func (r *GroupRepository) list(ctx context.Context, where string, args ...any) ([]models.Group, error) {
	rows, err := r.query(ctx, `
		SELECT g.id, g.name, g.created_by, g.created_at, m.user_id
		FROM groups g
		LEFT JOIN group_members m ON m.group_id = g.id
		`+where+`
		ORDER BY g.id, m.user_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var (
			g      models.Group
			member sql.NullInt64
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt, &member); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}

		if n := len(groups); n == 0 || groups[n-1].ID != g.ID {
			g.Members = models.MemberSet{}
			groups = append(groups, g)
		}
		if member.Valid {
			last := &groups[len(groups)-1]
			last.Members = append(last.Members, member.Int64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// Members returns the users in a group.
func (r *GroupRepository) Members(ctx context.Context, groupID int64) ([]models.UserSummary, error) {
	rows, err := r.query(ctx, `
		SELECT u.id, u.name, u.email
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = ?
		ORDER BY u.id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	return scanUserSummaries(rows)
}

func (r *GroupRepository) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := r.exec(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group: %w", err)
	}
	return n, nil
}

func (r *GroupRepository) DeleteMembers(ctx context.Context, groupID int64) (int64, error) {
	n, err := r.exec(ctx, `DELETE FROM group_members WHERE group_id = ?`, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group members: %w", err)
	}
	return n, nil
}
