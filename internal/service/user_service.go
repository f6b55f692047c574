package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ebatarlar/personal-finance/internal/domain"
	"github.com/ebatarlar/personal-finance/internal/repository"
)

// UserService exposes profile reads for authenticated endpoints.
type UserService struct {
	users  repository.UserRepository
	tracer trace.Tracer
}

// NewUserService wires dependencies.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{
		users:  users,
		tracer: otel.Tracer("github.com/ebatarlar/personal-finance/internal/service"),
	}
}

// Profile loads a user by id.
func (s *UserService) Profile(ctx context.Context, userID string) (domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Profile")
	defer span.End()

	return s.users.FindByID(ctx, userID)
}

// ProfileByEmail loads a user by email.
func (s *UserService) ProfileByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.ProfileByEmail")
	defer span.End()

	return s.users.FindByEmail(ctx, normalizeEmail(email))
}
