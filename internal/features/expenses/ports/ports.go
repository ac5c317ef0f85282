package ports

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/expenses/domain"
)

// ExpenseService defines the primary port for expenses.
type ExpenseService interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Expense], error)
	Get(ctx context.Context, id int64) (*domain.Expense, error)
	Create(ctx context.Context, in domain.Input) (*domain.Expense, error)
	Update(ctx context.Context, id int64, in domain.Input) (*domain.Expense, error)
	Delete(ctx context.Context, id int64) error
}

// ExpenseRepository defines the secondary port for expense storage.
type ExpenseRepository interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Expense], error)
	Get(ctx context.Context, id int64) (*domain.Expense, error)
	Create(ctx context.Context, in domain.Input) (*domain.Expense, error)
	Update(ctx context.Context, id int64, in domain.Input) (*domain.Expense, error)
	Delete(ctx context.Context, id int64) error
}
