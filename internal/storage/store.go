// Package storage defines the repository contracts the ledger is written
// against. Implementations live in subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("storage: not found")

	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("storage: duplicate")
)

// Store is a relational store that can hand out repositories bound either to
// the database directly or to a transaction.
type Store interface {
	// Repos returns repositories that run each statement on its own.
	Repos() Repositories

	// InTx runs fn with repositories bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Repositories vends one repository per table.
type Repositories interface {
	Users() UserRepository
	Friends() FriendRepository
	Groups() GroupRepository
	Categories() CategoryRepository
	Expenses() ExpenseRepository
	SharedExpenses() SharedExpenseRepository
	SettledExpenses() SettledExpenseRepository
	Settlements() SettlementRepository
	Feedback() FeedbackRepository
}

type UserRepository interface {
	// Create inserts the user and returns the assigned id.
	// Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.UserSummary, error)
	SearchByName(ctx context.Context, name string) ([]models.UserSummary, error)
}

type FriendRepository interface {
	// Create inserts the directed edge. Returns ErrDuplicate when it exists.
	Create(ctx context.Context, userID, friendID int64) (int64, error)
	Exists(ctx context.Context, userID, friendID int64) (bool, error)
	// Delete removes the directed edge and returns the number of rows removed.
	Delete(ctx context.Context, userID, friendID int64) (int64, error)
	// List returns the users userID has added as friends.
	List(ctx context.Context, userID int64) ([]models.UserSummary, error)
}

type GroupRepository interface {
	// Create inserts the group row only; members are added with AddMember.
	Create(ctx context.Context, group *models.Group) (int64, error)
	// AddMember returns ErrDuplicate when the user is already a member.
	AddMember(ctx context.Context, groupID, userID int64) error
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	Get(ctx context.Context, id int64) (*models.Group, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Group, error)
	SearchByName(ctx context.Context, name string) ([]models.Group, error)
	Members(ctx context.Context, groupID int64) ([]models.UserSummary, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteMembers(ctx context.Context, groupID int64) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]models.Category, error)
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) (int64, error)
	Get(ctx context.Context, id int64) (*models.Expense, error)
	// Update replaces every mutable column and returns the rows affected.
	Update(ctx context.Context, expense *models.Expense) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	// ListBetween returns the pair's expenses in insertion order.
	ListBetween(ctx context.Context, userID, friendID int64) ([]models.Expense, error)
	DeleteBetween(ctx context.Context, userID, friendID int64) (int64, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Expense, error)
	// ListByDateRange is inclusive on both ends.
	ListByDateRange(ctx context.Context, start, end models.Date) ([]models.Expense, error)
}

type SharedExpenseRepository interface {
	Create(ctx context.Context, expense *models.SharedExpense) (int64, error)
	Get(ctx context.Context, id int64) (*models.SharedExpense, error)
	Update(ctx context.Context, expense *models.SharedExpense) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	ListForGroup(ctx context.Context, groupID int64) ([]models.SharedExpense, error)
	ListByDateRange(ctx context.Context, start, end models.Date) ([]models.SharedExpense, error)
	DeleteForGroup(ctx context.Context, groupID int64) (int64, error)
}

type SettledExpenseRepository interface {
	Create(ctx context.Context, expense *models.SettledExpense) (int64, error)
	ListBetween(ctx context.Context, userID, friendID int64) ([]models.SettledExpense, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type SettlementRepository interface {
	// Create returns ErrDuplicate when the idempotency key was already used.
	Create(ctx context.Context, settlement *models.Settlement) error
	GetByKey(ctx context.Context, key string) (*models.Settlement, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) (int64, error)
}
