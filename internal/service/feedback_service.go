package service

import (
	"context"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// FeedbackService accepts contact form submissions without a session.
type FeedbackService struct {
	ledger *ledger.Ledger
}

func NewFeedbackService(l *ledger.Ledger) *FeedbackService {
	return &FeedbackService{ledger: l}
}

func (s *FeedbackService) Handlers(opts Options) []Route {
	return []Route{
		unary(api.FeedbackSubmitProcedure, s.SubmitFeedback, opts.Public),
	}
}

func (s *FeedbackService) SubmitFeedback(ctx context.Context, req *api.FeedbackRequest) (*api.IDResponse, error) {
	id, err := s.ledger.AddFeedback(ctx, models.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		return nil, err
	}
	return &api.IDResponse{ID: id}, nil
}
