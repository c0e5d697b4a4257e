package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a bank account: a balance plus the append-only transaction
// history that produced it. Every account has exactly one owner.
type Account struct {
	Number    string
	OwnerNIC  string
	Balance   decimal.Decimal
	CreatedAt time.Time

	// Transactions in recording order. Entries are never mutated or removed.
	Transactions []Transaction
}

// NetOfTransactions returns the signed sum of the recorded history. For an
// account created through OpenAccount this equals the balance; the two
// drifting apart means the persisted record was tampered with or corrupt.
func (a *Account) NetOfTransactions() decimal.Decimal {
	return SumSigned(a.Transactions)
}

// record appends a transaction to the account history.
func (a *Account) record(tx Transaction) {
	a.Transactions = append(a.Transactions, tx)
}
