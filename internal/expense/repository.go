// Package expense is plain CRUD over the backend's expenses table.
package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cafe-pos/internal/domain"
)

type RepositoryInterface interface {
	List(ctx context.Context) ([]domain.Expense, error)
	Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error)
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) RepositoryInterface { return &Repository{db: db} }

func (r *Repository) List(ctx context.Context) ([]domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount, spent_at
		FROM expenses
		ORDER BY spent_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.SpentAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *Repository) Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	if req.Description == "" {
		return domain.Expense{}, errors.New("description is required")
	}
	if req.Amount <= 0 {
		return domain.Expense{}, errors.New("amount must be positive")
	}

	e := domain.Expense{Description: req.Description, Amount: req.Amount}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO expenses (description, amount, spent_at)
		VALUES ($1, $2, NOW())
		RETURNING id, spent_at
	`, req.Description, req.Amount).Scan(&e.ID, &e.SpentAt)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return e, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s not found", id)
	}
	return nil
}
