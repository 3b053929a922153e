package service

import (
	"context"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/pkg/api"
)

// CategoryService manages expense categories.
type CategoryService struct {
	ledger *ledger.Ledger
}

func NewCategoryService(l *ledger.Ledger) *CategoryService {
	return &CategoryService{ledger: l}
}

func (s *CategoryService) Handlers(opts Options) []Route {
	return []Route{
		unary(api.CategoryAddCategoryProcedure, s.AddCategory, opts.Protected),
		unary(api.CategoryListCategoriesProcedure, s.ListCategories, opts.Protected),
	}
}

func (s *CategoryService) AddCategory(ctx context.Context, req *api.AddCategoryRequest) (*api.IDResponse, error) {
	id, err := s.ledger.AddCategory(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return &api.IDResponse{ID: id}, nil
}

func (s *CategoryService) ListCategories(ctx context.Context, _ *api.Empty) (*api.CategoriesResponse, error) {
	categories, err := s.ledger.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]api.Category, len(categories))
	for i, c := range categories {
		out[i] = api.Category{ID: c.ID, Name: c.Name}
	}
	return &api.CategoriesResponse{Categories: out}, nil
}
