package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// AddFriend records that userID has added friendID. With mutual set the
// reverse edge is inserted in the same transaction when it is missing.
func (l *Ledger) AddFriend(ctx context.Context, userID, friendID int64, mutual bool) error {
	const op = "ledger.AddFriend"
	args := []any{"user_id", userID, "friend_id", friendID}

	err := l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "userId", userID, "friendId", friendID); err != nil {
			return err
		}
		if userID == friendID {
			return validationError(op, "cannot befriend yourself")
		}

		err := l.store.InTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
			for _, id := range []int64{userID, friendID} {
				if _, err := repos.Users().GetByID(ctx, id); err != nil {
					if isNotFound(err) {
						return notFound(op, "user", "user_id", id)
					}
					return err
				}
			}

			if _, err := repos.Friends().Create(ctx, userID, friendID); err != nil {
				if isDuplicate(err) {
					return conflict(op, "already friends", args...)
				}
				return err
			}

			if !mutual {
				return nil
			}
			exists, err := repos.Friends().Exists(ctx, friendID, userID)
			if err != nil || exists {
				return err
			}
			_, err = repos.Friends().Create(ctx, friendID, userID)
			return err
		})
		return classify(op, err, args...)
	})
	if err != nil {
		return err
	}

	l.logger.Info("friend added", "user_id", userID, "friend_id", friendID, "mutual", mutual)
	return nil
}

// RemoveFriend deletes the userID -> friendID edge, and with mutual set the
// reverse edge too if present.
func (l *Ledger) RemoveFriend(ctx context.Context, userID, friendID int64, mutual bool) error {
	const op = "ledger.RemoveFriend"
	args := []any{"user_id", userID, "friend_id", friendID}

	return l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "userId", userID, "friendId", friendID); err != nil {
			return err
		}
		err := l.store.InTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
			n, err := repos.Friends().Delete(ctx, userID, friendID)
			if err != nil {
				return err
			}
			if n == 0 {
				return notFound(op, "friend link", args...)
			}
			if mutual {
				_, err = repos.Friends().Delete(ctx, friendID, userID)
			}
			return err
		})
		return classify(op, err, args...)
	})
}

// Friends lists the users userID has added.
func (l *Ledger) Friends(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	const op = "ledger.Friends"

	var out []models.UserSummary
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "userId", userID); err != nil {
			return err
		}
		var err error
		out, err = l.store.Repos().Friends().List(ctx, userID)
		return classify(op, err, "user_id", userID)
	})
	return out, err
}
