package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// SharedExpenseRepository persists expenses attributed to a group.
type SharedExpenseRepository struct {
	base
}

const selectSharedExpenses = `
	SELECT s.id, s.group_id, s.category_id, COALESCE(t.name, ''),
	       s.amount, s.description, s.date, s.paid_by, COALESCE(u.name, '')
	FROM shared_expenses s
	LEFT JOIN tags t ON t.id = s.category_id
	LEFT JOIN users u ON u.id = s.paid_by`

func scanSharedExpense(s scanner) (models.SharedExpense, error) {
	var e models.SharedExpense
	err := s.Scan(&e.ID, &e.GroupID, &e.CategoryID, &e.CategoryName,
		&e.Amount, &e.Description, &e.Date, &e.PaidBy, &e.PaidByName)
	return e, err
}

func (r *SharedExpenseRepository) Create(ctx context.Context, expense *models.SharedExpense) (int64, error) {
	id, err := r.insert(ctx, `
		INSERT INTO shared_expenses (group_id, category_id, amount, description, date, paid_by)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		expense.GroupID, expense.CategoryID, expense.Amount,
		expense.Description, expense.Date, expense.PaidBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shared expense: %w", err)
	}

	expense.ID = id
	return id, nil
}

func (r *SharedExpenseRepository) Get(ctx context.Context, id int64) (*models.SharedExpense, error) {
	e, err := scanSharedExpense(r.queryRow(ctx, selectSharedExpenses+` WHERE s.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shared expense %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shared expense: %w", dbError(err))
	}
	return &e, nil
}

func (r *SharedExpenseRepository) Update(ctx context.Context, expense *models.SharedExpense) (int64, error) {
	n, err := r.exec(ctx, `
		UPDATE shared_expenses
		SET group_id = ?, category_id = ?, amount = ?, description = ?, date = ?, paid_by = ?
		WHERE id = ?`,
		expense.GroupID, expense.CategoryID, expense.Amount,
		expense.Description, expense.Date, expense.PaidBy, expense.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update shared expense: %w", err)
	}
	return n, nil
}

func (r *SharedExpenseRepository) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := r.exec(ctx, `DELETE FROM shared_expenses WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete shared expense: %w", err)
	}
	return n, nil
}

func (r *SharedExpenseRepository) DeleteForGroup(ctx context.Context, groupID int64) (int64, error) {
	n, err := r.exec(ctx, `DELETE FROM shared_expenses WHERE group_id = ?`, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group expenses: %w", err)
	}
	return n, nil
}

func (r *SharedExpenseRepository) ListForGroup(ctx context.Context, groupID int64) ([]models.SharedExpense, error) {
	return r.list(ctx, ` WHERE s.group_id = ?`, groupID)
}

func (r *SharedExpenseRepository) ListByDateRange(ctx context.Context, start, end models.Date) ([]models.SharedExpense, error) {
	return r.list(ctx, ` WHERE s.date BETWEEN ? AND ?`, start, end)
}

func (r *SharedExpenseRepository) list(ctx context.Context, where string, args ...any) ([]models.SharedExpense, error) {
	rows, err := r.query(ctx, selectSharedExpenses+where+` ORDER BY s.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.SharedExpense{}
	for rows.Next() {
		e, err := scanSharedExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shared expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shared expenses: %w", err)
	}
	return expenses, nil
}
