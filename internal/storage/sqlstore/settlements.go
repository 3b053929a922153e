package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// SettledExpenseRepository persists settled history rows.
type SettledExpenseRepository struct {
	base
}

func (r *SettledExpenseRepository) Create(ctx context.Context, expense *models.SettledExpense) (int64, error) {
	id, err := r.insert(ctx, `
		INSERT INTO settled_expense
		    (settlement_id, user_id, friend_id, category_id, amount, description, date, settled_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		nullString(expense.SettlementID), expense.UserID, expense.FriendID, expense.CategoryID,
		expense.Amount, expense.Description, expense.Date, expense.SettledOn,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert settled expense: %w", err)
	}

	expense.ID = id
	return id, nil
}

func (r *SettledExpenseRepository) ListBetween(ctx context.Context, userID, friendID int64) ([]models.SettledExpense, error) {
	rows, err := r.query(ctx, `
		SELECT s.id, COALESCE(s.settlement_id, ''), s.user_id, s.friend_id, s.category_id,
		       COALESCE(t.name, ''), s.amount, s.description, s.date, s.settled_on
		FROM settled_expense s
		LEFT JOIN tags t ON t.id = s.category_id
		WHERE s.user_id = ? AND s.friend_id = ?
		ORDER BY s.id`,
		userID, friendID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settled expenses: %w", err)
	}
	defer rows.Close()

	settled := []models.SettledExpense{}
	for rows.Next() {
		var e models.SettledExpense
		if err := rows.Scan(&e.ID, &e.SettlementID, &e.UserID, &e.FriendID, &e.CategoryID,
			&e.CategoryName, &e.Amount, &e.Description, &e.Date, &e.SettledOn); err != nil {
			return nil, fmt.Errorf("failed to scan settled expense: %w", err)
		}
		settled = append(settled, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settled expenses: %w", err)
	}
	return settled, nil
}

func (r *SettledExpenseRepository) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := r.exec(ctx, `DELETE FROM settled_expense WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete settled expense: %w", err)
	}
	return n, nil
}

// SettlementRepository persists settle-all runs.
type SettlementRepository struct {
	base
}

// Create inserts the settlement. A reused idempotency key fails with
// storage.ErrDuplicate.
func (r *SettlementRepository) Create(ctx context.Context, settlement *models.Settlement) error {
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	if _, err := r.exec(ctx, `
		INSERT INTO settlements
		    (id, idempotency_key, user_id, friend_id, settled_count, settled_on, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, nullString(settlement.IdempotencyKey), settlement.UserID,
		settlement.FriendID, settlement.SettledCount, settlement.SettledOn, settlement.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

func (r *SettlementRepository) GetByKey(ctx context.Context, key string) (*models.Settlement, error) {
	s := &models.Settlement{IdempotencyKey: key}
	err := scanOne(r.queryRow(ctx, `
		SELECT id, user_id, friend_id, settled_count, settled_on, created_at
		FROM settlements
		WHERE idempotency_key = ?`, key),
		&s.ID, &s.UserID, &s.FriendID, &s.SettledCount, &s.SettledOn, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
