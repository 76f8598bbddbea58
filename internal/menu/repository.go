package menu

import (
	"context"
	"database/sql"
	"fmt"

	"cafe-pos/internal/domain"
)

type RepositoryInterface interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	Update(ctx context.Context, item domain.MenuItem) error
	SetAvailable(ctx context.Context, id string, available bool) error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) RepositoryInterface { return &Repository{db: db} }

func (r *Repository) List(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, category, image_url, available
		FROM menu_items
		ORDER BY category, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Category, &m.ImageURL, &m.Available); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *Repository) Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (name, price, category, image_url, available)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, available
	`, item.Name, item.Price, item.Category, item.ImageURL).Scan(&item.ID, &item.Available)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("insert menu item: %w", err)
	}
	return item, nil
}

func (r *Repository) Update(ctx context.Context, item domain.MenuItem) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE menu_items SET name = $2, price = $3, category = $4, image_url = $5
		WHERE id = $1
	`, item.ID, item.Name, item.Price, item.Category, item.ImageURL)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("menu item %s not found", item.ID)
	}
	return nil
}

func (r *Repository) SetAvailable(ctx context.Context, id string, available bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET available = $2 WHERE id = $1`, id, available)
	if err != nil {
		return fmt.Errorf("toggle menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("menu item %s not found", id)
	}
	return nil
}
