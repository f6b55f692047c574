package domain

// CategoryType mirrors TransactionType for spending categories.
type CategoryType string

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
)

// Valid reports whether the type is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryExpense || t == CategoryIncome
}

// Category is either a shared default or a user-defined custom category.
// Custom categories live embedded on the user document; defaults have their
// own collection, so IsDefault is derived rather than stored.
type Category struct {
	Type      CategoryType `bson:"type" json:"type"`
	Name      string       `bson:"name" json:"name"`
	IsDefault bool         `bson:"-" json:"is_default"`
}
