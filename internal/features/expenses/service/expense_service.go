package service

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/features/expenses/domain"
	"fleet-admin/internal/features/expenses/ports"

	"go.uber.org/zap"
)

// ExpenseService implements ports.ExpenseService.
type ExpenseService struct {
	repo ports.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(repo ports.ExpenseRepository) *ExpenseService {
	return &ExpenseService{repo: repo}
}

func (s *ExpenseService) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Expense], error) {
	return s.repo.List(ctx, q)
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (*domain.Expense, error) {
	return s.repo.Get(ctx, id)
}

func (s *ExpenseService) Create(ctx context.Context, in domain.Input) (*domain.Expense, error) {
	if err := in.ValidateCreate(); err != nil {
		return nil, err
	}
	e, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("Expense logged",
		zap.Int64("expense_id", e.ID),
		zap.String("category", string(e.Category)),
		zap.String("amount", e.Amount.StringFixed(2)),
	)
	return e, nil
}

func (s *ExpenseService) Update(ctx context.Context, id int64, in domain.Input) (*domain.Expense, error) {
	if err := in.ValidateUpdate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
