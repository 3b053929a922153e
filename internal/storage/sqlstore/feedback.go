package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// FeedbackRepository appends contact form submissions.
type FeedbackRepository struct {
	base
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) (int64, error) {
	if feedback.CreatedAt == 0 {
		feedback.CreatedAt = time.Now().Unix()
	}

	id, err := r.insert(ctx, `
		INSERT INTO feedback (name, email, phone, message, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		feedback.Name, feedback.Email, feedback.Phone, feedback.Message, feedback.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add feedback: %w", err)
	}

	feedback.ID = id
	return id, nil
}
