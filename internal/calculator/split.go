package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Share is one member's portion of a group expense.
type Share struct {
	UserID int64
	Amount decimal.Decimal
}

// EqualShares splits amount evenly across members, rounded to cents.
// Cents left over after the even split go one each to the lowest user ids,
// so the shares always sum to the rounded amount.
// Shares are returned in ascending user id order.
func EqualShares(amount decimal.Decimal, members models.MemberSet) ([]Share, error) {
	members = models.NewMemberSet(members...)
	if len(members) == 0 {
		return nil, fmt.Errorf("must have at least one member")
	}

	cents := amount.Round(2).Shift(2)
	each, rem := cents.QuoRem(decimal.NewFromInt(int64(len(members))), 0)

	// rem carries the sign of amount and |rem| < len(members).
	step := decimal.New(1, -2)
	if rem.IsNegative() {
		step, rem = step.Neg(), rem.Neg()
	}
	extra := rem.IntPart()
	base := each.Shift(-2)

	shares := make([]Share, len(members))
	for i, id := range members {
		share := base
		if int64(i) < extra {
			share = share.Add(step)
		}
		shares[i] = Share{UserID: id, Amount: share}
	}
	return shares, nil
}

// Sum adds up shares.
func Sum(shares []Share) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	return total
}
