package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func validateSharedExpense(op string, e *models.SharedExpense) error {
	if err := positive(op,
		"groupId", e.GroupID,
		"categoryId", e.CategoryID,
		"paidBy", e.PaidBy,
	); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return validationError(op, "date is required")
	}
	return nil
}

// checkPayer requires the group to exist and the payer to belong to it.
func checkPayer(ctx context.Context, op string, repos storage.Repositories, e *models.SharedExpense) error {
	if _, err := repos.Groups().Get(ctx, e.GroupID); err != nil {
		if isNotFound(err) {
			return notFound(op, "group", "group_id", e.GroupID)
		}
		return classify(op, err, "group_id", e.GroupID)
	}

	member, err := repos.Groups().IsMember(ctx, e.GroupID, e.PaidBy)
	if err != nil {
		return classify(op, err, "group_id", e.GroupID)
	}
	if !member {
		return validationError(op, "paidBy %d is not a member of group %d", e.PaidBy, e.GroupID)
	}
	return nil
}

// RecordSharedExpense adds an expense attributed to a group and returns its
// id. The group must exist and the payer must be a member.
func (l *Ledger) RecordSharedExpense(ctx context.Context, e models.SharedExpense) (int64, error) {
	const op = "ledger.RecordSharedExpense"

	var id int64
	err := l.write(ctx, op, func(ctx context.Context) error {
		if err := validateSharedExpense(op, &e); err != nil {
			return err
		}
		err := l.store.InTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
			if err := checkPayer(ctx, op, repos, &e); err != nil {
				return err
			}
			var err error
			id, err = repos.SharedExpenses().Create(ctx, &e)
			return err
		})
		return classify(op, err, "group_id", e.GroupID)
	})
	if err != nil {
		return 0, err
	}

	l.logger.Info("shared expense recorded",
		"shared_expense_id", id,
		"group_id", e.GroupID,
		"paid_by", e.PaidBy,
		"amount", e.Amount.String(),
	)
	return id, nil
}

// EditSharedExpense replaces every field of an existing shared expense.
func (l *Ledger) EditSharedExpense(ctx context.Context, e models.SharedExpense) (int64, error) {
	const op = "ledger.EditSharedExpense"

	var n int64
	err := l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "id", e.ID); err != nil {
			return err
		}
		if err := validateSharedExpense(op, &e); err != nil {
			return err
		}
		err := l.store.InTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
			if err := checkPayer(ctx, op, repos, &e); err != nil {
				return err
			}
			var err error
			n, err = repos.SharedExpenses().Update(ctx, &e)
			if err != nil {
				return err
			}
			if n == 0 {
				return notFound(op, "shared expense", "shared_expense_id", e.ID)
			}
			return nil
		})
		return classify(op, err, "shared_expense_id", e.ID)
	})
	return n, err
}

// DeleteSharedExpense removes a shared expense.
func (l *Ledger) DeleteSharedExpense(ctx context.Context, id int64) error {
	const op = "ledger.DeleteSharedExpense"

	return l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "id", id); err != nil {
			return err
		}
		n, err := l.store.Repos().SharedExpenses().Delete(ctx, id)
		if err != nil {
			return classify(op, err, "shared_expense_id", id)
		}
		if n == 0 {
			return notFound(op, "shared expense", "shared_expense_id", id)
		}
		return nil
	})
}

// GetSharedExpense returns one shared expense.
func (l *Ledger) GetSharedExpense(ctx context.Context, id int64) (*models.SharedExpense, error) {
	const op = "ledger.GetSharedExpense"

	var e *models.SharedExpense
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "id", id); err != nil {
			return err
		}
		var err error
		e, err = l.store.Repos().SharedExpenses().Get(ctx, id)
		return classify(op, err, "shared_expense_id", id)
	})
	return e, err
}

// SharedExpensesForGroup lists a group's expenses with category and payer
// names. Expenses orphaned by a group deletion are still listed under the
// former group id.
func (l *Ledger) SharedExpensesForGroup(ctx context.Context, groupID int64) ([]models.SharedExpense, error) {
	const op = "ledger.SharedExpensesForGroup"

	var out []models.SharedExpense
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "groupId", groupID); err != nil {
			return err
		}
		var err error
		out, err = l.store.Repos().SharedExpenses().ListForGroup(ctx, groupID)
		return classify(op, err, "group_id", groupID)
	})
	return out, err
}

// SharedExpensesByDateRange lists shared expenses dated within [start, end].
func (l *Ledger) SharedExpensesByDateRange(ctx context.Context, start, end models.Date) ([]models.SharedExpense, error) {
	const op = "ledger.SharedExpensesByDateRange"

	var out []models.SharedExpense
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := validateRange(op, start, end); err != nil {
			return err
		}
		var err error
		out, err = l.store.Repos().SharedExpenses().ListByDateRange(ctx, start, end)
		return classify(op, err, "start", start, "end", end)
	})
	return out, err
}
