package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/sqlstore"
	"github.com/mmynk/splitledger/pkg/api"
)

type testServer struct {
	url    string
	ledger *ledger.Ledger
}

// setupTestServer wires every service against a temp sqlite store.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	store, err := sqlstore.OpenSQLite(ctx, filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	l := ledger.New(store, ledger.WithLogger(logger))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store.Repos().Users())

	opts := Options{
		Public: []connect.HandlerOption{
			connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(logger)),
		},
		Protected: []connect.HandlerOption{
			connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(logger)),
		},
	}

	mux := http.NewServeMux()
	for _, svc := range []interface{ Handlers(Options) []Route }{
		NewAuthService(authenticator, jwtManager, l, logger),
		NewUserService(l),
		NewCategoryService(l),
		NewGroupService(l, logger),
		NewExpenseService(l, logger),
		NewSettlementService(l),
		NewFeedbackService(l),
	} {
		for _, r := range svc.Handlers(opts) {
			mux.Handle(r.Path, r.Handler)
		}
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &testServer{url: server.URL, ledger: l}
}

func call[Req, Res any](t *testing.T, ts *testServer, procedure, token string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](http.DefaultClient, ts.url+procedure, connect.WithCodec(api.JSONCodec{}))
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func register(t *testing.T, ts *testServer, name string) api.AuthResponse {
	t.Helper()
	resp, err := call[api.RegisterRequest, api.AuthResponse](t, ts, api.AuthRegisterProcedure, "", &api.RegisterRequest{
		Email: name + "@example.com", Name: name, Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	return *resp
}

func codeOf(err error) connect.Code {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code()
	}
	return connect.CodeUnknown
}

func TestAuthFlow(t *testing.T) {
	ts := setupTestServer(t)
	alice := register(t, ts, "alice")

	_, err := call[api.RegisterRequest, api.AuthResponse](t, ts, api.AuthRegisterProcedure, "", &api.RegisterRequest{
		Email: "alice@example.com", Name: "Alice", Password: "password123",
	})
	assert.Equal(t, connect.CodeAlreadyExists, codeOf(err))

	login, err := call[api.LoginRequest, api.AuthResponse](t, ts, api.AuthLoginProcedure, "", &api.LoginRequest{
		Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.User.ID, login.User.ID)

	_, err = call[api.LoginRequest, api.AuthResponse](t, ts, api.AuthLoginProcedure, "", &api.LoginRequest{
		Email: "alice@example.com", Password: "wrong-password",
	})
	assert.Equal(t, connect.CodeUnauthenticated, codeOf(err))

	me, err := call[api.Empty, api.UserResponse](t, ts, api.AuthGetCurrentUserProcedure, login.Token, &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "alice", me.User.Name)

	_, err = call[api.Empty, api.UserResponse](t, ts, api.AuthGetCurrentUserProcedure, "", &api.Empty{})
	assert.Equal(t, connect.CodeUnauthenticated, codeOf(err))
}

func TestFriendsAndDirectory(t *testing.T) {
	ts := setupTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")

	_, err := call[api.FriendRequest, api.Empty](t, ts, api.UserAddFriendProcedure, alice.Token, &api.FriendRequest{FriendID: bob.User.ID, Mutual: true})
	require.NoError(t, err)

	_, err = call[api.FriendRequest, api.Empty](t, ts, api.UserAddFriendProcedure, alice.Token, &api.FriendRequest{FriendID: bob.User.ID})
	assert.Equal(t, connect.CodeAlreadyExists, codeOf(err))

	_, err = call[api.FriendRequest, api.Empty](t, ts, api.UserAddFriendProcedure, alice.Token, &api.FriendRequest{FriendID: alice.User.ID})
	assert.Equal(t, connect.CodeInvalidArgument, codeOf(err))

	friends, err := call[api.Empty, api.UsersResponse](t, ts, api.UserListFriendsProcedure, bob.Token, &api.Empty{})
	require.NoError(t, err)
	require.Len(t, friends.Users, 1)
	assert.Equal(t, alice.User.ID, friends.Users[0].ID)

	found, err := call[api.SearchRequest, api.UsersResponse](t, ts, api.UserSearchUsersProcedure, alice.Token, &api.SearchRequest{Query: "BO"})
	require.NoError(t, err)
	require.Len(t, found.Users, 1)
	assert.Equal(t, "bob", found.Users[0].Name)

	_, err = call[api.IDRequest, api.UserResponse](t, ts, api.UserGetUserProcedure, alice.Token, &api.IDRequest{ID: 999})
	assert.Equal(t, connect.CodeNotFound, codeOf(err))
}

func TestExpensesAndSettlement(t *testing.T) {
	ts := setupTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")

	cat, err := call[api.AddCategoryRequest, api.IDResponse](t, ts, api.CategoryAddCategoryProcedure, alice.Token, &api.AddCategoryRequest{Name: "Food"})
	require.NoError(t, err)

	for _, amount := range []string{"12.50", "7.25"} {
		_, err := call[api.Expense, api.IDResponse](t, ts, api.ExpenseRecordExpenseProcedure, alice.Token, &api.Expense{
			FriendID:    bob.User.ID,
			CategoryID:  cat.ID,
			Amount:      decimal.RequireFromString(amount),
			Description: "lunch",
			Date:        models.NewDate(2024, time.June, 3),
			PaidBy:      alice.User.ID,
		})
		require.NoError(t, err)
	}

	listed, err := call[api.PairRequest, api.ExpensesResponse](t, ts, api.ExpenseListExpensesProcedure, alice.Token, &api.PairRequest{FriendID: bob.User.ID})
	require.NoError(t, err)
	require.Len(t, listed.Expenses, 2)
	assert.Equal(t, "Food", listed.Expenses[0].CategoryName)

	_, err = call[api.Expense, api.UpdatedResponse](t, ts, api.ExpenseEditExpenseProcedure, alice.Token, &api.Expense{
		ID: 999, FriendID: bob.User.ID, CategoryID: cat.ID, Amount: decimal.NewFromInt(1),
		Date: models.NewDate(2024, time.June, 3), PaidBy: alice.User.ID,
	})
	assert.Equal(t, connect.CodeNotFound, codeOf(err))

	settled, err := call[api.SettleAllRequest, api.SettleAllResponse](t, ts, api.SettlementSettleAllProcedure, alice.Token, &api.SettleAllRequest{
		FriendID: bob.User.ID, IdempotencyKey: "settle-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, settled.SettledCount)
	assert.False(t, settled.Replayed)

	replay, err := call[api.SettleAllRequest, api.SettleAllResponse](t, ts, api.SettlementSettleAllProcedure, alice.Token, &api.SettleAllRequest{
		FriendID: bob.User.ID, IdempotencyKey: "settle-1",
	})
	require.NoError(t, err)
	assert.True(t, replay.Replayed)
	assert.Equal(t, settled.SettlementID, replay.SettlementID)

	history, err := call[api.PairRequest, api.SettledExpensesResponse](t, ts, api.SettlementListSettledProcedure, alice.Token, &api.PairRequest{FriendID: bob.User.ID})
	require.NoError(t, err)
	require.Len(t, history.Expenses, 2)
	assert.Equal(t, settled.SettlementID, history.Expenses[0].SettlementID)

	left, err := call[api.PairRequest, api.ExpensesResponse](t, ts, api.ExpenseListExpensesProcedure, alice.Token, &api.PairRequest{FriendID: bob.User.ID})
	require.NoError(t, err)
	assert.Empty(t, left.Expenses)

	_, err = call[api.SettleAllRequest, api.SettleAllResponse](t, ts, api.SettlementSettleAllProcedure, alice.Token, &api.SettleAllRequest{FriendID: alice.User.ID})
	assert.Equal(t, connect.CodeInvalidArgument, codeOf(err))
}

func TestPairAccessIsLimitedToParties(t *testing.T) {
	ts := setupTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")
	carol := register(t, ts, "carol")

	cat, err := call[api.AddCategoryRequest, api.IDResponse](t, ts, api.CategoryAddCategoryProcedure, alice.Token, &api.AddCategoryRequest{Name: "Food"})
	require.NoError(t, err)

	_, err = call[api.Expense, api.IDResponse](t, ts, api.ExpenseRecordExpenseProcedure, alice.Token, &api.Expense{
		UserID: alice.User.ID, FriendID: bob.User.ID, CategoryID: cat.ID, Amount: decimal.NewFromInt(20),
		Date: models.NewDate(2024, time.June, 3), PaidBy: alice.User.ID,
	})
	require.NoError(t, err)

	// the other side of the pair may read it
	listed, err := call[api.PairRequest, api.ExpensesResponse](t, ts, api.ExpenseListExpensesProcedure, bob.Token, &api.PairRequest{
		UserID: alice.User.ID, FriendID: bob.User.ID,
	})
	require.NoError(t, err)
	assert.Len(t, listed.Expenses, 1)

	_, err = call[api.Expense, api.IDResponse](t, ts, api.ExpenseRecordExpenseProcedure, carol.Token, &api.Expense{
		UserID: alice.User.ID, FriendID: bob.User.ID, CategoryID: cat.ID, Amount: decimal.NewFromInt(5),
		Date: models.NewDate(2024, time.June, 4), PaidBy: alice.User.ID,
	})
	assert.Equal(t, connect.CodePermissionDenied, codeOf(err))

	_, err = call[api.PairRequest, api.ExpensesResponse](t, ts, api.ExpenseListExpensesProcedure, carol.Token, &api.PairRequest{
		UserID: alice.User.ID, FriendID: bob.User.ID,
	})
	assert.Equal(t, connect.CodePermissionDenied, codeOf(err))

	_, err = call[api.UserExpensesRequest, api.ExpensesResponse](t, ts, api.ExpenseListUserExpensesProcedure, carol.Token, &api.UserExpensesRequest{
		UserID: alice.User.ID,
	})
	assert.Equal(t, connect.CodePermissionDenied, codeOf(err))

	_, err = call[api.SettleAllRequest, api.SettleAllResponse](t, ts, api.SettlementSettleAllProcedure, carol.Token, &api.SettleAllRequest{
		UserID: alice.User.ID, FriendID: bob.User.ID,
	})
	assert.Equal(t, connect.CodePermissionDenied, codeOf(err))

	_, err = call[api.PairRequest, api.SettledExpensesResponse](t, ts, api.SettlementListSettledProcedure, carol.Token, &api.PairRequest{
		UserID: alice.User.ID, FriendID: bob.User.ID,
	})
	assert.Equal(t, connect.CodePermissionDenied, codeOf(err))

	// nothing was settled on alice's behalf
	left, err := call[api.PairRequest, api.ExpensesResponse](t, ts, api.ExpenseListExpensesProcedure, alice.Token, &api.PairRequest{FriendID: bob.User.ID})
	require.NoError(t, err)
	assert.Len(t, left.Expenses, 1)
}

func TestGroupsAndShares(t *testing.T) {
	ts := setupTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")
	carol := register(t, ts, "carol")

	created, err := call[api.CreateGroupRequest, api.GroupResponse](t, ts, api.GroupCreateGroupProcedure, alice.Token, &api.CreateGroupRequest{
		Name: "Roommates", Members: []int64{bob.User.ID, carol.User.ID, bob.User.ID},
	})
	require.NoError(t, err)
	assert.Len(t, created.Group.Members, 3)
	groupID := created.Group.ID

	cat, err := call[api.AddCategoryRequest, api.IDResponse](t, ts, api.CategoryAddCategoryProcedure, alice.Token, &api.AddCategoryRequest{Name: "Rent"})
	require.NoError(t, err)

	_, err = call[api.SharedExpense, api.IDResponse](t, ts, api.ExpenseRecordSharedExpenseProcedure, bob.Token, &api.SharedExpense{
		GroupID: groupID, CategoryID: cat.ID, Amount: decimal.RequireFromString("100"),
		Description: "rent", Date: models.NewDate(2024, time.June, 1),
	})
	require.NoError(t, err)

	listed, err := call[api.GroupExpensesRequest, api.SharedExpensesResponse](t, ts, api.ExpenseListGroupExpensesProcedure, carol.Token, &api.GroupExpensesRequest{GroupID: groupID})
	require.NoError(t, err)
	require.Len(t, listed.Expenses, 1)
	e := listed.Expenses[0]
	assert.Equal(t, "bob", e.PaidByName)
	require.Len(t, e.Shares, 3)
	assert.Equal(t, "33.34", e.Shares[0].Amount.StringFixed(2))
	assert.Equal(t, "33.33", e.Shares[2].Amount.StringFixed(2))

	mine, err := call[api.Empty, api.GroupsResponse](t, ts, api.GroupListGroupsProcedure, carol.Token, &api.Empty{})
	require.NoError(t, err)
	require.Len(t, mine.Groups, 1)

	_, err = call[api.DeleteGroupRequest, api.DeleteGroupResponse](t, ts, api.GroupDeleteGroupProcedure, alice.Token, &api.DeleteGroupRequest{GroupID: groupID, Policy: "shred"})
	assert.Equal(t, connect.CodeInvalidArgument, codeOf(err))

	deleted, err := call[api.DeleteGroupRequest, api.DeleteGroupResponse](t, ts, api.GroupDeleteGroupProcedure, alice.Token, &api.DeleteGroupRequest{GroupID: groupID, Policy: "cascade"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.RemovedExpenses)

	_, err = call[api.DeleteGroupRequest, api.DeleteGroupResponse](t, ts, api.GroupDeleteGroupProcedure, alice.Token, &api.DeleteGroupRequest{GroupID: groupID})
	assert.Equal(t, connect.CodeNotFound, codeOf(err))
}

func TestSubmitFeedback(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := call[api.FeedbackRequest, api.IDResponse](t, ts, api.FeedbackSubmitProcedure, "", &api.FeedbackRequest{
		Name: "Dana", Email: "dana@example.com", Message: "Nice app",
	})
	require.NoError(t, err)
	assert.Positive(t, resp.ID)

	_, err = call[api.FeedbackRequest, api.IDResponse](t, ts, api.FeedbackSubmitProcedure, "", &api.FeedbackRequest{Email: "dana@example.com"})
	assert.Equal(t, connect.CodeInvalidArgument, codeOf(err))
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{ledger.ErrValidation, connect.CodeInvalidArgument},
		{ledger.ErrNotFound, connect.CodeNotFound},
		{ledger.ErrConflict, connect.CodeAlreadyExists},
		{ledger.ErrIntegrity, connect.CodeAborted},
		{ledger.ErrStore, connect.CodeInternal},
		{errors.Join(ledger.ErrStore, context.DeadlineExceeded), connect.CodeUnavailable},
		{auth.ErrEmailExists, connect.CodeAlreadyExists},
		{connect.NewError(connect.CodePermissionDenied, errors.New("no")), connect.CodePermissionDenied},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, codeOf(toConnectError(tt.err)), tt.err.Error())
	}
}
