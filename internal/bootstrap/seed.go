package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ebatarlar/personal-finance/internal/domain"
	"github.com/ebatarlar/personal-finance/internal/repository"
)

func defaultCategories() []domain.Category {
	return []domain.Category{
		{Type: domain.CategoryIncome, Name: "Salary"},
		{Type: domain.CategoryIncome, Name: "Freelance"},
		{Type: domain.CategoryIncome, Name: "Investments"},
		{Type: domain.CategoryIncome, Name: "Other Income"},
		{Type: domain.CategoryExpense, Name: "Groceries"},
		{Type: domain.CategoryExpense, Name: "Rent"},
		{Type: domain.CategoryExpense, Name: "Utilities"},
		{Type: domain.CategoryExpense, Name: "Transport"},
		{Type: domain.CategoryExpense, Name: "Healthcare"},
		{Type: domain.CategoryExpense, Name: "Entertainment"},
		{Type: domain.CategoryExpense, Name: "Other Expenses"},
	}
}

// SeedCategories populates the shared default category collection on startup
// when it is empty.
func SeedCategories(lc fx.Lifecycle, categories repository.CategoryRepository, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			seeded, err := categories.SeedDefaults(ctx, defaultCategories())
			if err != nil {
				return fmt.Errorf("seed default categories: %w", err)
			}
			if logger != nil {
				logger.Info("default categories ready", zap.Int("seeded", seeded))
			}
			return nil
		},
	})
}
