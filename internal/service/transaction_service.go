package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ebatarlar/personal-finance/internal/domain"
	"github.com/ebatarlar/personal-finance/internal/repository"
)

// TransactionService records and lists financial transactions.
type TransactionService struct {
	transactions repository.TransactionRepository
	node         *snowflake.Node
	logger       *zap.Logger
	tracer       trace.Tracer
}

// NewTransactionService wires dependencies.
func NewTransactionService(transactions repository.TransactionRepository, node *snowflake.Node, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		node:         node,
		logger:       logger,
		tracer:       otel.Tracer("github.com/ebatarlar/personal-finance/internal/service"),
	}
}

// NewTransaction carries creation input.
type NewTransaction struct {
	Type        domain.TransactionType `json:"type"`
	Categories  []string               `json:"categories"`
	Amount      float64                `json:"amount"`
	Date        time.Time              `json:"date"`
	Description string                 `json:"description"`
}

// Create validates and persists a transaction for the user.
func (s *TransactionService) Create(ctx context.Context, userID string, in NewTransaction) (domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "TransactionService.Create")
	defer span.End()

	if !in.Type.Valid() {
		return domain.Transaction{}, domain.NewError(domain.KindValidation, "transaction type must be either 'income' or 'expense'")
	}
	if in.Amount <= 0 {
		return domain.Transaction{}, domain.NewError(domain.KindValidation, "amount must be positive")
	}
	if in.Date.IsZero() {
		return domain.Transaction{}, domain.NewError(domain.KindValidation, "date is required")
	}

	now := time.Now().UTC()
	tx := domain.Transaction{
		ID:          s.node.Generate().Int64(),
		UserID:      userID,
		Type:        in.Type,
		Categories:  in.Categories,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if tx.Categories == nil {
		tx.Categories = []string{}
	}

	created, err := s.transactions.Insert(ctx, tx)
	if err != nil {
		span.RecordError(err)
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.Info("transaction created",
		zap.String("user_id", userID),
		zap.Int64("transaction_id", created.ID),
		zap.String("type", string(created.Type)))
	return created, nil
}

// ListByUser returns the user's transactions, newest first.
func (s *TransactionService) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "TransactionService.ListByUser")
	defer span.End()

	transactions, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}
