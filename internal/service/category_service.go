package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ebatarlar/personal-finance/internal/domain"
	"github.com/ebatarlar/personal-finance/internal/repository"
)

// CategoryService combines shared default categories with per-user custom ones.
type CategoryService struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewCategoryService wires dependencies.
func NewCategoryService(categories repository.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger,
		tracer:     otel.Tracer("github.com/ebatarlar/personal-finance/internal/service"),
	}
}

// Defaults lists the shared default categories.
func (s *CategoryService) Defaults(ctx context.Context) ([]domain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CategoryService.Defaults")
	defer span.End()

	categories, err := s.categories.ListDefaults(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list defaults: %w", err)
	}
	return categories, nil
}

// Custom lists the user's own categories.
func (s *CategoryService) Custom(ctx context.Context, userID string) ([]domain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CategoryService.Custom")
	defer span.End()

	return s.categories.ListCustom(ctx, userID)
}

// All returns defaults followed by the user's custom categories.
func (s *CategoryService) All(ctx context.Context, userID string) ([]domain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CategoryService.All")
	defer span.End()

	defaults, err := s.categories.ListDefaults(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list defaults: %w", err)
	}
	custom, err := s.categories.ListCustom(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return append(defaults, custom...), nil
}

// AddCustom validates and stores a custom category on the user.
func (s *CategoryService) AddCustom(ctx context.Context, userID string, category domain.Category) (domain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CategoryService.AddCustom")
	defer span.End()

	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return domain.Category{}, domain.NewError(domain.KindValidation, "category name is required")
	}
	if !category.Type.Valid() {
		return domain.Category{}, domain.NewError(domain.KindValidation, "category type must be either 'income' or 'expense'")
	}
	category.IsDefault = false

	if err := s.categories.AddCustom(ctx, userID, category); err != nil {
		span.RecordError(err)
		return domain.Category{}, err
	}

	s.logger.Info("custom category added", zap.String("user_id", userID), zap.String("name", category.Name))
	return category, nil
}

// RemoveCustom deletes a custom category by name.
func (s *CategoryService) RemoveCustom(ctx context.Context, userID, name string) error {
	ctx, span := s.tracer.Start(ctx, "CategoryService.RemoveCustom")
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return domain.NewError(domain.KindValidation, "category name is required")
	}
	if err := s.categories.RemoveCustom(ctx, userID, name); err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.Info("custom category removed", zap.String("user_id", userID), zap.String("name", name))
	return nil
}
