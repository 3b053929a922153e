package api

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// User is the public view of an account.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Group struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Members   []int64 `json:"members"`
	CreatedBy int64   `json:"created_by"`
	CreatedAt int64   `json:"created_at"`
}

// Expense is a direct debt between two users. Amount is a decimal string.
type Expense struct {
	ID           int64           `json:"id,omitempty"`
	UserID       int64           `json:"user_id"`
	FriendID     int64           `json:"friend_id"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         models.Date     `json:"date"`
	PaidBy       int64           `json:"paid_by"`
}

// Share is one member's equal portion of a shared expense.
type Share struct {
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

type SharedExpense struct {
	ID           int64           `json:"id,omitempty"`
	GroupID      int64           `json:"group_id"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         models.Date     `json:"date"`
	PaidBy       int64           `json:"paid_by"`
	PaidByName   string          `json:"paid_by_name,omitempty"`
	Shares       []Share         `json:"shares,omitempty"`
}

type SettledExpense struct {
	ID           int64           `json:"id,omitempty"`
	SettlementID string          `json:"settlement_id,omitempty"`
	UserID       int64           `json:"user_id"`
	FriendID     int64           `json:"friend_id"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         models.Date     `json:"date"`
	SettledOn    models.Date     `json:"settled_on"`
}

// IDRequest addresses a single record.
type IDRequest struct {
	ID int64 `json:"id"`
}

// IDResponse carries the id of a created record.
type IDResponse struct {
	ID int64 `json:"id"`
}

// Empty is used where a call has nothing to say.
type Empty struct{}

// PairRequest addresses the ordered (user, friend) pair.
type PairRequest struct {
	UserID   int64 `json:"user_id"`
	FriendID int64 `json:"friend_id"`
}

// DateRangeRequest selects records dated within [start, end].
type DateRangeRequest struct {
	Start models.Date `json:"start"`
	End   models.Date `json:"end"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

// Auth.

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type UserResponse struct {
	User User `json:"user"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

// Friends.

// FriendRequest adds or removes a friend of the calling user.
type FriendRequest struct {
	FriendID int64 `json:"friend_id"`
	Mutual   bool  `json:"mutual"`
}

// Categories.

type AddCategoryRequest struct {
	Name string `json:"name"`
}

type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}

// Groups.

type CreateGroupRequest struct {
	Name    string  `json:"name"`
	Members []int64 `json:"members"`
}

type GroupResponse struct {
	Group Group `json:"group"`
}

type GroupsResponse struct {
	Groups []Group `json:"groups"`
}

type AddMemberRequest struct {
	GroupID int64 `json:"group_id"`
	UserID  int64 `json:"user_id"`
}

// DeleteGroupRequest removes a group. Policy is "orphan" (default) or
// "cascade".
type DeleteGroupRequest struct {
	GroupID int64  `json:"group_id"`
	Policy  string `json:"policy,omitempty"`
}

type DeleteGroupResponse struct {
	RemovedExpenses int64 `json:"removed_expenses"`
}

// Expenses.

type ExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type UserExpensesRequest struct {
	UserID int64 `json:"user_id"`
}

// UpdatedResponse reports how many rows an edit touched.
type UpdatedResponse struct {
	Updated int64 `json:"updated"`
}

type SharedExpenseResponse struct {
	Expense SharedExpense `json:"expense"`
}

type SharedExpensesResponse struct {
	Expenses []SharedExpense `json:"expenses"`
}

type GroupExpensesRequest struct {
	GroupID int64 `json:"group_id"`
}

// Settlements.

type SettleAllRequest struct {
	UserID         int64  `json:"user_id"`
	FriendID       int64  `json:"friend_id"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type SettleAllResponse struct {
	SettlementID string      `json:"settlement_id,omitempty"`
	SettledCount int         `json:"settled_count"`
	SettledOn    models.Date `json:"settled_on"`
	Replayed     bool        `json:"replayed"`
}

type SettledExpensesResponse struct {
	Expenses []SettledExpense `json:"expenses"`
}

// Feedback.

type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}
