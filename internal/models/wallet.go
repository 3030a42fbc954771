package models

import (
	"github.com/shopspring/decimal"
)

// GlobalWalletID is the reserved sentinel meaning "all wallets aggregate".
// It is a view context only and is never stored on any record.
const GlobalWalletID = "global"

// Wallet represents a user wallet. Balance is a running total maintained by
// explicit update calls, not recomputed from transactions — except for the
// synthetic Global wallet, which is never persisted.
type Wallet struct {
	ID        ID              `json:"id"`
	Name      string          `json:"name"`
	Color     string          `json:"color,omitempty"`
	Icon      string          `json:"icon,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// GlobalWallet builds the synthetic aggregate wallet over the given
// transactions. Its balance is always recomputed as the sum of signed
// amounts and never drifts independently.
func GlobalWallet(transactions []Transaction) Wallet {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Signed())
	}
	return Wallet{
		ID:      RemoteID(GlobalWalletID),
		Name:    "Global",
		Balance: total,
	}
}
