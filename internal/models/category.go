package models

// CustomCategory is a user-created transaction category. Built-in categories
// are not persisted and are represented by Category instead.
type CustomCategory struct {
	ID        ID              `json:"id"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// Category is a read-side view over both built-in and custom categories.
type Category struct {
	Name    string          `json:"name"`
	Type    TransactionType `json:"type"`
	BuiltIn bool            `json:"built_in"`
}

// DefaultCategories returns the built-in categories. They are never
// persisted and cannot be deleted.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Salary", Type: TransactionTypeIncome, BuiltIn: true},
		{Name: "Bonus", Type: TransactionTypeIncome, BuiltIn: true},
		{Name: "Investment", Type: TransactionTypeIncome, BuiltIn: true},
		{Name: "Gift", Type: TransactionTypeIncome, BuiltIn: true},
		{Name: "Other Income", Type: TransactionTypeIncome, BuiltIn: true},
		{Name: "Food", Type: TransactionTypeExpense, BuiltIn: true},
		{Name: "Transport", Type: TransactionTypeExpense, BuiltIn: true},
		{Name: "Shopping", Type: TransactionTypeExpense, BuiltIn: true},
		{Name: "Bills", Type: TransactionTypeExpense, BuiltIn: true},
		{Name: "Health", Type: TransactionTypeExpense, BuiltIn: true},
		{Name: "Entertainment", Type: TransactionTypeExpense, BuiltIn: true},
		{Name: "Education", Type: TransactionTypeExpense, BuiltIn: true},
		{Name: "Other Expense", Type: TransactionTypeExpense, BuiltIn: true},
	}
}
