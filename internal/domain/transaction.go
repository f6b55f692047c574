package domain

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionExpense TransactionType = "expense"
	TransactionIncome  TransactionType = "income"
)

// Valid reports whether the type is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionExpense || t == TransactionIncome
}

// Transaction is a single financial movement recorded by a user.
type Transaction struct {
	ID          int64           `bson:"_id" json:"id,string"`
	UserID      string          `bson:"user_id" json:"user_id"`
	Type        TransactionType `bson:"type" json:"type"`
	Categories  []string        `bson:"categories" json:"categories"`
	Amount      float64         `bson:"amount" json:"amount"`
	Date        time.Time       `bson:"date" json:"date"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updated_at"`
}
