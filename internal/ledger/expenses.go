package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

func validateExpense(op string, e *models.Expense) error {
	if err := positive(op,
		"userId", e.UserID,
		"friendId", e.FriendID,
		"categoryId", e.CategoryID,
		"paidBy", e.PaidBy,
	); err != nil {
		return err
	}
	if e.UserID == e.FriendID {
		return validationError(op, "an expense needs two different users")
	}
	if e.PaidBy != e.UserID && e.PaidBy != e.FriendID {
		return validationError(op, "paidBy must be userId or friendId")
	}
	if e.Date.IsZero() {
		return validationError(op, "date is required")
	}
	return nil
}

// RecordExpense adds an outstanding direct expense and returns its id.
// Identical calls create distinct rows.
func (l *Ledger) RecordExpense(ctx context.Context, e models.Expense) (int64, error) {
	const op = "ledger.RecordExpense"

	var id int64
	err := l.write(ctx, op, func(ctx context.Context) error {
		if err := validateExpense(op, &e); err != nil {
			return err
		}
		var err error
		id, err = l.store.Repos().Expenses().Create(ctx, &e)
		return classify(op, err, "user_id", e.UserID, "friend_id", e.FriendID)
	})
	if err != nil {
		return 0, err
	}

	l.logger.Info("expense recorded",
		"expense_id", id,
		"user_id", e.UserID,
		"friend_id", e.FriendID,
		"amount", e.Amount.String(),
	)
	return id, nil
}

// EditExpense replaces every field of an existing expense and returns the
// number of rows updated.
func (l *Ledger) EditExpense(ctx context.Context, e models.Expense) (int64, error) {
	const op = "ledger.EditExpense"

	var n int64
	err := l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "id", e.ID); err != nil {
			return err
		}
		if err := validateExpense(op, &e); err != nil {
			return err
		}
		var err error
		n, err = l.store.Repos().Expenses().Update(ctx, &e)
		if err != nil {
			return classify(op, err, "expense_id", e.ID)
		}
		if n == 0 {
			return notFound(op, "expense", "expense_id", e.ID)
		}
		return nil
	})
	return n, err
}

// DeleteExpense removes an outstanding expense.
func (l *Ledger) DeleteExpense(ctx context.Context, id int64) error {
	const op = "ledger.DeleteExpense"

	return l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "id", id); err != nil {
			return err
		}
		n, err := l.store.Repos().Expenses().Delete(ctx, id)
		if err != nil {
			return classify(op, err, "expense_id", id)
		}
		if n == 0 {
			return notFound(op, "expense", "expense_id", id)
		}
		return nil
	})
}

// GetExpense returns one outstanding expense.
func (l *Ledger) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	const op = "ledger.GetExpense"

	var e *models.Expense
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "id", id); err != nil {
			return err
		}
		var err error
		e, err = l.store.Repos().Expenses().Get(ctx, id)
		return classify(op, err, "expense_id", id)
	})
	return e, err
}

// ExpensesBetween lists the outstanding expenses of the ordered pair in
// insertion order. The reverse direction is not included.
func (l *Ledger) ExpensesBetween(ctx context.Context, userID, friendID int64) ([]models.Expense, error) {
	const op = "ledger.ExpensesBetween"

	var out []models.Expense
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "userId", userID, "friendId", friendID); err != nil {
			return err
		}
		var err error
		out, err = l.store.Repos().Expenses().ListBetween(ctx, userID, friendID)
		return classify(op, err, "user_id", userID, "friend_id", friendID)
	})
	return out, err
}

// ExpensesForUser lists the expenses recorded with userID on the user side.
func (l *Ledger) ExpensesForUser(ctx context.Context, userID int64) ([]models.Expense, error) {
	const op = "ledger.ExpensesForUser"

	var out []models.Expense
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "userId", userID); err != nil {
			return err
		}
		var err error
		out, err = l.store.Repos().Expenses().ListForUser(ctx, userID)
		return classify(op, err, "user_id", userID)
	})
	return out, err
}

// ExpensesByDateRange lists expenses dated within [start, end].
func (l *Ledger) ExpensesByDateRange(ctx context.Context, start, end models.Date) ([]models.Expense, error) {
	const op = "ledger.ExpensesByDateRange"

	var out []models.Expense
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := validateRange(op, start, end); err != nil {
			return err
		}
		var err error
		out, err = l.store.Repos().Expenses().ListByDateRange(ctx, start, end)
		return classify(op, err, "start", start, "end", end)
	})
	return out, err
}

func validateRange(op string, start, end models.Date) error {
	if start.IsZero() || end.IsZero() {
		return validationError(op, "start and end dates are required")
	}
	if end.Before(start) {
		return validationError(op, "end date %s is before start date %s", end, start)
	}
	return nil
}
