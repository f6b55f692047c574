package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ebatarlar/personal-finance/internal/http/middleware"
	"github.com/ebatarlar/personal-finance/internal/service"
)

// TransactionHandler serves the authenticated user's transactions.
type TransactionHandler struct {
	Transactions *service.TransactionService
}

func NewTransactionHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{Transactions: transactions}
}

// Create records a transaction for the bearer's subject.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing subject."})
		return
	}

	var req service.NewTransaction
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid transaction payload."})
		return
	}

	created, err := h.Transactions.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List returns the bearer's transactions, newest first.
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing subject."})
		return
	}

	transactions, err := h.Transactions.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}
