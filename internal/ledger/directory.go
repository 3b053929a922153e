package ledger

import (
	"context"
	"strings"

	"github.com/badoux/checkmail"

	"github.com/mmynk/splitledger/internal/models"
)

// GetUser returns the public projection of a user.
func (l *Ledger) GetUser(ctx context.Context, id int64) (*models.UserSummary, error) {
	const op = "ledger.GetUser"

	var out *models.UserSummary
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "id", id); err != nil {
			return err
		}
		u, err := l.store.Repos().Users().GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return notFound(op, "user", "user_id", id)
			}
			return classify(op, err, "user_id", id)
		}
		summary := u.Summary()
		out = &summary
		return nil
	})
	return out, err
}

// ListUsers returns every registered user.
func (l *Ledger) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	const op = "ledger.ListUsers"

	var out []models.UserSummary
	err := l.read(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = l.store.Repos().Users().List(ctx)
		return classify(op, err)
	})
	return out, err
}

// SearchUsers lists users whose name contains name.
func (l *Ledger) SearchUsers(ctx context.Context, name string) ([]models.UserSummary, error) {
	const op = "ledger.SearchUsers"

	var out []models.UserSummary
	err := l.read(ctx, op, func(ctx context.Context) error {
		if strings.TrimSpace(name) == "" {
			return validationError(op, "search name is required")
		}
		var err error
		out, err = l.store.Repos().Users().SearchByName(ctx, name)
		return classify(op, err)
	})
	return out, err
}

// AddCategory appends a category and returns its id.
func (l *Ledger) AddCategory(ctx context.Context, name string) (int64, error) {
	const op = "ledger.AddCategory"

	var id int64
	err := l.write(ctx, op, func(ctx context.Context) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return validationError(op, "category name is required")
		}
		var err error
		id, err = l.store.Repos().Categories().Create(ctx, name)
		return classify(op, err)
	})
	return id, err
}

// Categories lists every category.
func (l *Ledger) Categories(ctx context.Context) ([]models.Category, error) {
	const op = "ledger.Categories"

	var out []models.Category
	err := l.read(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = l.store.Repos().Categories().List(ctx)
		return classify(op, err)
	})
	return out, err
}

// AddFeedback stores a contact form submission.
func (l *Ledger) AddFeedback(ctx context.Context, fb models.Feedback) (int64, error) {
	const op = "ledger.AddFeedback"

	var id int64
	err := l.write(ctx, op, func(ctx context.Context) error {
		if strings.TrimSpace(fb.Message) == "" {
			return validationError(op, "message is required")
		}
		if err := checkmail.ValidateFormat(fb.Email); err != nil {
			return validationError(op, "invalid email %q", fb.Email)
		}
		fb.CreatedAt = l.now().Unix()

		var err error
		id, err = l.store.Repos().Feedback().Create(ctx, &fb)
		return classify(op, err)
	})
	return id, err
}
