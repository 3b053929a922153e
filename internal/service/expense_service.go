package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// ExpenseService records and lists direct and shared expenses.
type ExpenseService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

func NewExpenseService(l *ledger.Ledger, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{ledger: l, logger: logger}
}

func (s *ExpenseService) Handlers(opts Options) []Route {
	p := opts.Protected
	return []Route{
		unary(api.ExpenseRecordExpenseProcedure, s.RecordExpense, p),
		unary(api.ExpenseEditExpenseProcedure, s.EditExpense, p),
		unary(api.ExpenseDeleteExpenseProcedure, s.DeleteExpense, p),
		unary(api.ExpenseGetExpenseProcedure, s.GetExpense, p),
		unary(api.ExpenseListExpensesProcedure, s.ListExpenses, p),
		unary(api.ExpenseListUserExpensesProcedure, s.ListUserExpenses, p),
		unary(api.ExpenseListExpensesByDateProcedure, s.ListExpensesByDate, p),
		unary(api.ExpenseRecordSharedExpenseProcedure, s.RecordSharedExpense, p),
		unary(api.ExpenseEditSharedExpenseProcedure, s.EditSharedExpense, p),
		unary(api.ExpenseDeleteSharedExpenseProcedure, s.DeleteSharedExpense, p),
		unary(api.ExpenseGetSharedExpenseProcedure, s.GetSharedExpense, p),
		unary(api.ExpenseListGroupExpensesProcedure, s.ListGroupExpenses, p),
		unary(api.ExpenseListSharedByDateProcedure, s.ListSharedExpensesByDate, p),
	}
}

// RecordExpense records a direct expense. UserID defaults to the caller, and
// the caller must be one side of the pair.
func (s *ExpenseService) RecordExpense(ctx context.Context, req *api.Expense) (*api.IDResponse, error) {
	e := fromAPIExpense(req)
	userID, err := pairUser(ctx, e.UserID, e.FriendID)
	if err != nil {
		return nil, err
	}
	e.UserID = userID

	id, err := s.ledger.RecordExpense(ctx, e)
	if err != nil {
		return nil, err
	}
	return &api.IDResponse{ID: id}, nil
}

func (s *ExpenseService) EditExpense(ctx context.Context, req *api.Expense) (*api.UpdatedResponse, error) {
	e := fromAPIExpense(req)
	userID, err := pairUser(ctx, e.UserID, e.FriendID)
	if err != nil {
		return nil, err
	}
	e.UserID = userID

	n, err := s.ledger.EditExpense(ctx, e)
	if err != nil {
		return nil, err
	}
	return &api.UpdatedResponse{Updated: n}, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, req *api.IDRequest) (*api.Empty, error) {
	if err := s.ledger.DeleteExpense(ctx, req.ID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, req *api.IDRequest) (*api.ExpenseResponse, error) {
	e, err := s.ledger.GetExpense(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &api.ExpenseResponse{Expense: toAPIExpense(*e)}, nil
}

// ListExpenses lists the outstanding expenses of the ordered pair. UserID
// defaults to the caller.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *api.PairRequest) (*api.ExpensesResponse, error) {
	userID, err := pairUser(ctx, req.UserID, req.FriendID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.ledger.ExpensesBetween(ctx, userID, req.FriendID)
	if err != nil {
		return nil, err
	}
	return &api.ExpensesResponse{Expenses: toAPIExpenses(expenses)}, nil
}

func (s *ExpenseService) ListUserExpenses(ctx context.Context, req *api.UserExpensesRequest) (*api.ExpensesResponse, error) {
	userID, err := selfUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.ledger.ExpensesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &api.ExpensesResponse{Expenses: toAPIExpenses(expenses)}, nil
}

func (s *ExpenseService) ListExpensesByDate(ctx context.Context, req *api.DateRangeRequest) (*api.ExpensesResponse, error) {
	expenses, err := s.ledger.ExpensesByDateRange(ctx, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	return &api.ExpensesResponse{Expenses: toAPIExpenses(expenses)}, nil
}

func (s *ExpenseService) RecordSharedExpense(ctx context.Context, req *api.SharedExpense) (*api.IDResponse, error) {
	e := fromAPISharedExpense(req)
	e.PaidBy = orCaller(ctx, e.PaidBy)

	id, err := s.ledger.RecordSharedExpense(ctx, e)
	if err != nil {
		return nil, err
	}
	return &api.IDResponse{ID: id}, nil
}

func (s *ExpenseService) EditSharedExpense(ctx context.Context, req *api.SharedExpense) (*api.UpdatedResponse, error) {
	e := fromAPISharedExpense(req)
	e.PaidBy = orCaller(ctx, e.PaidBy)

	n, err := s.ledger.EditSharedExpense(ctx, e)
	if err != nil {
		return nil, err
	}
	return &api.UpdatedResponse{Updated: n}, nil
}

func (s *ExpenseService) DeleteSharedExpense(ctx context.Context, req *api.IDRequest) (*api.Empty, error) {
	if err := s.ledger.DeleteSharedExpense(ctx, req.ID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

func (s *ExpenseService) GetSharedExpense(ctx context.Context, req *api.IDRequest) (*api.SharedExpenseResponse, error) {
	e, err := s.ledger.GetSharedExpense(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &api.SharedExpenseResponse{Expense: toAPISharedExpense(*e)}, nil
}

// ListGroupExpenses lists a group's shared expenses, each with the equal
// shares of the group's current members. Expenses of a deleted group are
// listed without shares.
func (s *ExpenseService) ListGroupExpenses(ctx context.Context, req *api.GroupExpensesRequest) (*api.SharedExpensesResponse, error) {
	expenses, err := s.ledger.SharedExpensesForGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	var members models.MemberSet
	group, err := s.ledger.GetGroup(ctx, req.GroupID)
	switch {
	case err == nil:
		members = group.Members
	case !errors.Is(err, ledger.ErrNotFound):
		return nil, err
	}

	out := toAPISharedExpenses(expenses)
	if len(members) == 0 {
		return &api.SharedExpensesResponse{Expenses: out}, nil
	}
	for i := range out {
		shares, err := calculator.EqualShares(out[i].Amount, members)
		if err != nil {
			s.logger.Warn("share computation failed", "expense_id", out[i].ID, "error", err)
			continue
		}
		out[i].Shares = toAPIShares(shares)
	}
	return &api.SharedExpensesResponse{Expenses: out}, nil
}

func (s *ExpenseService) ListSharedExpensesByDate(ctx context.Context, req *api.DateRangeRequest) (*api.SharedExpensesResponse, error) {
	expenses, err := s.ledger.SharedExpensesByDateRange(ctx, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	return &api.SharedExpensesResponse{Expenses: toAPISharedExpenses(expenses)}, nil
}
