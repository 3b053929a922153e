package models

import "github.com/shopspring/decimal"

// SettledExpense is the immutable history row an Expense becomes once its pair
// is settled.
type SettledExpense struct {
	ID int64

	// SettlementID links the row to the settle-all run that produced it.
	// Rows recorded directly carry an empty SettlementID.
	SettlementID string

	UserID   int64
	FriendID int64

	CategoryID   int64
	CategoryName string

	Amount      decimal.Decimal
	Description string

	// Date is the original expense date.
	Date Date

	// SettledOn is the day the row was settled.
	SettledOn Date
}

// Settlement records one settle-all run for a directed pair.
type Settlement struct {
	// ID is a UUID generated by the ledger.
	ID string

	// IdempotencyKey is the optional caller-supplied key used to detect
	// replays. Empty when the caller supplied none.
	IdempotencyKey string

	UserID   int64
	FriendID int64

	// SettledCount is the number of expenses migrated by the run.
	SettledCount int

	SettledOn Date

	// CreatedAt is the Unix timestamp of the run.
	CreatedAt int64
}
