package service

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIUser(u models.UserSummary) api.User {
	return api.User{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toAPIUsers(users []models.UserSummary) []api.User {
	out := make([]api.User, len(users))
	for i, u := range users {
		out[i] = toAPIUser(u)
	}
	return out
}

func toAPIGroup(g models.Group) api.Group {
	members := g.Members
	if members == nil {
		members = models.MemberSet{}
	}
	return api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIGroups(groups []models.Group) []api.Group {
	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}
	return out
}

func toAPIExpense(e models.Expense) api.Expense {
	return api.Expense{
		ID:           e.ID,
		UserID:       e.UserID,
		FriendID:     e.FriendID,
		CategoryID:   e.CategoryID,
		CategoryName: e.CategoryName,
		Amount:       e.Amount,
		Description:  e.Description,
		Date:         e.Date,
		PaidBy:       e.PaidBy,
	}
}

func toAPIExpenses(expenses []models.Expense) []api.Expense {
	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return out
}

func fromAPIExpense(e *api.Expense) models.Expense {
	return models.Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		FriendID:    e.FriendID,
		CategoryID:  e.CategoryID,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date,
		PaidBy:      e.PaidBy,
	}
}

func toAPISharedExpense(e models.SharedExpense) api.SharedExpense {
	return api.SharedExpense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		CategoryID:   e.CategoryID,
		CategoryName: e.CategoryName,
		Amount:       e.Amount,
		Description:  e.Description,
		Date:         e.Date,
		PaidBy:       e.PaidBy,
		PaidByName:   e.PaidByName,
	}
}

func toAPISharedExpenses(expenses []models.SharedExpense) []api.SharedExpense {
	out := make([]api.SharedExpense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPISharedExpense(e)
	}
	return out
}

func fromAPISharedExpense(e *api.SharedExpense) models.SharedExpense {
	return models.SharedExpense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		CategoryID:  e.CategoryID,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date,
		PaidBy:      e.PaidBy,
	}
}

func toAPIShares(shares []calculator.Share) []api.Share {
	out := make([]api.Share, len(shares))
	for i, s := range shares {
		out[i] = api.Share{UserID: s.UserID, Amount: s.Amount}
	}
	return out
}

func toAPISettledExpenses(expenses []models.SettledExpense) []api.SettledExpense {
	out := make([]api.SettledExpense, len(expenses))
	for i, e := range expenses {
		out[i] = api.SettledExpense{
			ID:           e.ID,
			SettlementID: e.SettlementID,
			UserID:       e.UserID,
			FriendID:     e.FriendID,
			CategoryID:   e.CategoryID,
			CategoryName: e.CategoryName,
			Amount:       e.Amount,
			Description:  e.Description,
			Date:         e.Date,
			SettledOn:    e.SettledOn,
		}
	}
	return out
}
