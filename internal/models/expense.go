package models

import "github.com/shopspring/decimal"

// Expense is an outstanding direct debt recorded for the ordered pair
// (UserID, FriendID). Opposing directions are separate debts and are never
// netted against each other.
type Expense struct {
	// ID is assigned by the store on insert.
	ID int64

	// UserID and FriendID identify the ordered pair the expense belongs to.
	UserID   int64
	FriendID int64

	// CategoryID references a Category. CategoryName is filled on reads only.
	CategoryID   int64
	CategoryName string

	// Amount is the cost fronted by PaidBy. Negative amounts record refunds or
	// corrections.
	Amount decimal.Decimal

	Description string

	// Date is the day the expense was incurred.
	Date Date

	// PaidBy is either UserID or FriendID.
	PaidBy int64
}

// SharedExpense is an expense attributed to a group as a whole. Individual
// shares are derived at read time from the group's current members.
type SharedExpense struct {
	ID      int64
	GroupID int64

	CategoryID   int64
	CategoryName string

	Amount      decimal.Decimal
	Description string
	Date        Date

	// PaidBy is the user who fronted the cost. PaidByName is filled on reads.
	PaidBy     int64
	PaidByName string
}
