package sqlstore

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// CategoryRepository persists expense tags.
type CategoryRepository struct {
	base
}

func (r *CategoryRepository) Create(ctx context.Context, name string) (int64, error) {
	id, err := r.insert(ctx, `INSERT INTO tags (name) VALUES (?) RETURNING id`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to add category: %w", err)
	}
	return id, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.query(ctx, `SELECT id, name FROM tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}
