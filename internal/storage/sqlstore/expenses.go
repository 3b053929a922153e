package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// ExpenseRepository persists outstanding direct expenses.
type ExpenseRepository struct {
	base
}

const selectExpenses = `
	SELECT e.id, e.user_id, e.friend_id, e.category_id, COALESCE(t.name, ''),
	       e.amount, e.description, e.date, e.paid_by
	FROM expenses e
	LEFT JOIN tags t ON t.id = e.category_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (models.Expense, error) {
	var e models.Expense
	err := s.Scan(&e.ID, &e.UserID, &e.FriendID, &e.CategoryID, &e.CategoryName,
		&e.Amount, &e.Description, &e.Date, &e.PaidBy)
	return e, err
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) (int64, error) {
	id, err := r.insert(ctx, `
		INSERT INTO expenses (user_id, friend_id, category_id, amount, description, date, paid_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		expense.UserID, expense.FriendID, expense.CategoryID, expense.Amount,
		expense.Description, expense.Date, expense.PaidBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %w", err)
	}

	expense.ID = id
	return id, nil
}

func (r *ExpenseRepository) Get(ctx context.Context, id int64) (*models.Expense, error) {
	e, err := scanExpense(r.queryRow(ctx, selectExpenses+` WHERE e.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", dbError(err))
	}
	return &e, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) (int64, error) {
	n, err := r.exec(ctx, `
		UPDATE expenses
		SET user_id = ?, friend_id = ?, category_id = ?, amount = ?,
		    description = ?, date = ?, paid_by = ?
		WHERE id = ?`,
		expense.UserID, expense.FriendID, expense.CategoryID, expense.Amount,
		expense.Description, expense.Date, expense.PaidBy, expense.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update expense: %w", err)
	}
	return n, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := r.exec(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expense: %w", err)
	}
	return n, nil
}

func (r *ExpenseRepository) ListBetween(ctx context.Context, userID, friendID int64) ([]models.Expense, error) {
	return r.list(ctx, ` WHERE e.user_id = ? AND e.friend_id = ?`, userID, friendID)
}

func (r *ExpenseRepository) DeleteBetween(ctx context.Context, userID, friendID int64) (int64, error) {
	n, err := r.exec(ctx,
		`DELETE FROM expenses WHERE user_id = ? AND friend_id = ?`,
		userID, friendID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expenses: %w", err)
	}
	return n, nil
}

func (r *ExpenseRepository) ListForUser(ctx context.Context, userID int64) ([]models.Expense, error) {
	return r.list(ctx, ` WHERE e.user_id = ?`, userID)
}

func (r *ExpenseRepository) ListByDateRange(ctx context.Context, start, end models.Date) ([]models.Expense, error) {
	return r.list(ctx, ` WHERE e.date BETWEEN ? AND ?`, start, end)
}

func (r *ExpenseRepository) list(ctx context.Context, where string, args ...any) ([]models.Expense, error) {
	rows, err := r.query(ctx, selectExpenses+where+` ORDER BY e.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}
