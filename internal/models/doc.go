// Package models defines the domain types of the shared-expense ledger.
//
// # Ledger
//
//   - Expense: an outstanding direct debt between an ordered (user, friend) pair
//   - SharedExpense: an expense attributed to a group as a whole
//   - SettledExpense: immutable history row produced by a settlement
//   - Settlement: the record of one settle-all run, used for replay detection
//
// # Social graph
//
//   - User, UserSummary: registered accounts and their public projection
//   - FriendLink: a directed friend edge
//   - Group, MemberSet: named member sets that own shared expenses
//
// # Catalog
//
//   - Category: expense tag, append-only
//   - Feedback: free-form user feedback, outside the ledger
//
// Relationships are expressed through int64 ids assigned by the store, never
// through pointers. Monetary amounts use decimal.Decimal and calendar days use
// Date so that neither is subject to float or timezone drift.
package models
