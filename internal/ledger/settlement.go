package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// SettleRequest asks for every outstanding expense of the ordered pair
// (UserID, FriendID) to be settled.
type SettleRequest struct {
	UserID   int64
	FriendID int64

	// IdempotencyKey, when set, makes the request safe to resend: a replay
	// returns the result of the first run instead of settling again.
	IdempotencyKey string
}

// SettlementResult reports what a settle-all run did.
type SettlementResult struct {
	// SettlementID is empty when nothing was settled and no key was given.
	SettlementID string
	SettledCount int
	SettledOn    models.Date

	// Replayed is true when the result comes from an earlier run with the
	// same idempotency key.
	Replayed bool
}

func replayOf(s *models.Settlement) *SettlementResult {
	return &SettlementResult{
		SettlementID: s.ID,
		SettledCount: s.SettledCount,
		SettledOn:    s.SettledOn,
		Replayed:     true,
	}
}

// SettleAll moves every outstanding expense of the ordered pair into settled
// history and deletes the originals, all in one transaction. Either every row
// is migrated or none is; any failure after validation is reported as
// ErrIntegrity with the store left exactly as it was. The reverse direction
// (FriendID, UserID) is never touched. Settling a pair with no expenses is a
// valid no-op returning zero.
//
// The write is never retried here. Callers that resend after an ambiguous
// failure should supply an IdempotencyKey.
func (l *Ledger) SettleAll(ctx context.Context, req SettleRequest) (*SettlementResult, error) {
	const op = "ledger.SettleAll"
	args := []any{"user_id", req.UserID, "friend_id", req.FriendID}

	var result *SettlementResult
	err := l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "userId", req.UserID, "friendId", req.FriendID); err != nil {
			return err
		}
		if req.UserID == req.FriendID {
			return validationError(op, "cannot settle a user with themselves")
		}

		var err error
		result, err = l.settle(ctx, op, req)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrConflict) {
			return err
		}
		if replay, ok := l.lostKeyRace(ctx, req, err); ok {
			result = replay
			return nil
		}
		return integrity(op, err, args...)
	})
	if err != nil {
		return nil, err
	}

	if !result.Replayed {
		l.metrics.AddSettled(result.SettledCount)
	}
	l.logger.Info("expenses settled",
		"user_id", req.UserID,
		"friend_id", req.FriendID,
		"settlement_id", result.SettlementID,
		"count", result.SettledCount,
		"replayed", result.Replayed,
	)
	return result, nil
}

func (l *Ledger) settle(ctx context.Context, op string, req SettleRequest) (*SettlementResult, error) {
	var result *SettlementResult

	err := l.store.InTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if req.IdempotencyKey != "" {
			prior, err := repos.Settlements().GetByKey(ctx, req.IdempotencyKey)
			switch {
			case err == nil:
				if prior.UserID != req.UserID || prior.FriendID != req.FriendID {
					return conflict(op, "idempotency key already used for another pair",
						"idempotency_key", req.IdempotencyKey,
						"user_id", prior.UserID, "friend_id", prior.FriendID)
				}
				result = replayOf(prior)
				return nil
			case !isNotFound(err):
				return err
			}
		}

		snapshot, err := repos.Expenses().ListBetween(ctx, req.UserID, req.FriendID)
		if err != nil {
			return err
		}

		now := l.now()
		settlement := &models.Settlement{
			ID:             l.newID(),
			IdempotencyKey: req.IdempotencyKey,
			UserID:         req.UserID,
			FriendID:       req.FriendID,
			SettledCount:   len(snapshot),
			SettledOn:      models.DateOf(now),
			CreatedAt:      now.Unix(),
		}

		if len(snapshot) == 0 && req.IdempotencyKey == "" {
			result = &SettlementResult{SettledOn: settlement.SettledOn}
			return nil
		}

		if err := repos.Settlements().Create(ctx, settlement); err != nil {
			return err
		}

		settled := repos.SettledExpenses()
		for _, e := range snapshot {
			if _, err := settled.Create(ctx, &models.SettledExpense{
				SettlementID: settlement.ID,
				UserID:       e.UserID,
				FriendID:     e.FriendID,
				CategoryID:   e.CategoryID,
				Amount:       e.Amount,
				Description:  e.Description,
				Date:         e.Date,
				SettledOn:    settlement.SettledOn,
			}); err != nil {
				return fmt.Errorf("settling expense %d: %w", e.ID, err)
			}
		}

		deleted, err := repos.Expenses().DeleteBetween(ctx, req.UserID, req.FriendID)
		if err != nil {
			return err
		}
		if deleted != int64(len(snapshot)) {
			return &Error{
				Op:   op,
				Kind: ErrIntegrity,
				Msg:  fmt.Sprintf("deleted %d expenses, expected %d", deleted, len(snapshot)),
				Args: []any{"user_id", req.UserID, "friend_id", req.FriendID},
			}
		}

		result = &SettlementResult{
			SettlementID: settlement.ID,
			SettledCount: len(snapshot),
			SettledOn:    settlement.SettledOn,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lostKeyRace handles two concurrent requests with the same key: the loser's
// insert hits the unique key and it returns the winner's result instead.
func (l *Ledger) lostKeyRace(ctx context.Context, req SettleRequest, err error) (*SettlementResult, bool) {
	if req.IdempotencyKey == "" || !errors.Is(err, storage.ErrDuplicate) {
		return nil, false
	}
	prior, gerr := l.store.Repos().Settlements().GetByKey(ctx, req.IdempotencyKey)
	if gerr != nil || prior.UserID != req.UserID || prior.FriendID != req.FriendID {
		return nil, false
	}
	return replayOf(prior), true
}

// RecordSettledExpense writes a settled row directly, dated today.
func (l *Ledger) RecordSettledExpense(ctx context.Context, e models.SettledExpense) (int64, error) {
	const op = "ledger.RecordSettledExpense"

	var id int64
	err := l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "userId", e.UserID, "friendId", e.FriendID, "categoryId", e.CategoryID); err != nil {
			return err
		}
		if e.UserID == e.FriendID {
			return validationError(op, "a settled expense needs two different users")
		}
		if e.Date.IsZero() {
			return validationError(op, "date is required")
		}
		e.SettlementID = ""
		e.SettledOn = l.today()

		var err error
		id, err = l.store.Repos().SettledExpenses().Create(ctx, &e)
		return classify(op, err, "user_id", e.UserID, "friend_id", e.FriendID)
	})
	return id, err
}

// SettledExpensesBetween lists the settled history of the ordered pair.
func (l *Ledger) SettledExpensesBetween(ctx context.Context, userID, friendID int64) ([]models.SettledExpense, error) {
	const op = "ledger.SettledExpensesBetween"

	var out []models.SettledExpense
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "userId", userID, "friendId", friendID); err != nil {
			return err
		}
		var err error
		out, err = l.store.Repos().SettledExpenses().ListBetween(ctx, userID, friendID)
		return classify(op, err, "user_id", userID, "friend_id", friendID)
	})
	return out, err
}

// DeleteSettledExpense removes a settled history row.
func (l *Ledger) DeleteSettledExpense(ctx context.Context, id int64) error {
	const op = "ledger.DeleteSettledExpense"

	return l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "id", id); err != nil {
			return err
		}
		n, err := l.store.Repos().SettledExpenses().Delete(ctx, id)
		if err != nil {
			return classify(op, err, "settled_expense_id", id)
		}
		if n == 0 {
			return notFound(op, "settled expense", "settled_expense_id", id)
		}
		return nil
	})
}
