package services

import (
	"github.com/shopspring/decimal"

	"moneta/internal/models"
)

// TransactionInput is the raw, possibly locale-formatted input for a
// transaction write.
type TransactionInput struct {
	Amount      string `validate:"required"`
	Type        string `validate:"required,txn_type"`
	Category    string `validate:"required"`
	Subcategory string
	Description string `validate:"required"`
	Date        string `validate:"required"`
	Time        string
	WalletID    string
}

// WalletInput is the input for creating or updating a wallet.
type WalletInput struct {
	Name  string `validate:"required,wallet_name"`
	Color string `validate:"omitempty,hex_color"`
	Icon  string
}

// CategoryInput is the input for creating a custom category.
type CategoryInput struct {
	Name string `validate:"required"`
	Type string `validate:"required,txn_type"`
}

// TransactionServicer defines the contract for transaction-related business
// logic.
type TransactionServicer interface {
	Validate(input TransactionInput) error
	Normalize(input TransactionInput, walletContext string) (models.Transaction, error)
	Write(txn models.Transaction) (models.Transaction, error)
	AddTransaction(input TransactionInput, walletContext string) (models.Transaction, error)
	EditTransaction(id models.ID, input TransactionInput, walletContext string) (models.Transaction, error)
	DeleteTransaction(id models.ID) error
	ImportTransactions(inputs []TransactionInput, walletContext string) ([]models.Transaction, error)
	DeleteTransactionsByWallet(walletID string) error
	Transactions() ([]models.Transaction, error)
	ResetAll() error
}

// WalletServicer defines the contract for wallet-related business logic.
type WalletServicer interface {
	CreateWallet(input WalletInput) (models.Wallet, error)
	UpdateWallet(id models.ID, input WalletInput) (models.Wallet, error)
	DeleteWallet(id models.ID, deleteTransactions bool) error
	Wallets() ([]models.Wallet, error)
	GlobalWallet() (models.Wallet, error)
	ApplyBalanceDelta(walletID string, delta decimal.Decimal) error
	// SetTransactions wires the transaction service used for wallet-scoped
	// cascade deletes; called once during engine construction.
	SetTransactions(transactions TransactionServicer)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(input CategoryInput) (models.CustomCategory, error)
	DeleteCategory(id models.ID) error
	CustomCategories() ([]models.CustomCategory, error)
	Categories(categoryType models.TransactionType) ([]models.Category, error)
}

// DashboardServicer defines the contract for the singleton dashboard layout.
type DashboardServicer interface {
	SaveCards(cards []models.DashboardCard) (models.DashboardSettings, error)
	Cards() ([]models.DashboardCard, error)
}
