package repository

import (
	"context"

	"github.com/ebatarlar/personal-finance/internal/domain"
)

// UserRepository is the user directory consumed by the auth service. Lookups
// that match nothing return domain.ErrUserNotFound.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByOAuth(ctx context.Context, provider domain.OAuthProvider, providerUserID string) (domain.User, error)
	FindByID(ctx context.Context, userID string) (domain.User, error)
	Insert(ctx context.Context, user domain.User) (domain.User, error)
	UpdateFields(ctx context.Context, userID string, fields map[string]any) (domain.User, error)
}

// TransactionRepository persists financial transactions.
type TransactionRepository interface {
	Insert(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// CategoryRepository serves default categories and per-user custom ones.
type CategoryRepository interface {
	ListDefaults(ctx context.Context) ([]domain.Category, error)
	ListCustom(ctx context.Context, userID string) ([]domain.Category, error)
	AddCustom(ctx context.Context, userID string, category domain.Category) error
	RemoveCustom(ctx context.Context, userID, name string) error
	SeedDefaults(ctx context.Context, categories []domain.Category) (int, error)
}
