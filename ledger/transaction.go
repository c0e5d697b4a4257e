package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType names the kind of a transaction as it appears on disk and
// in transaction history listings.
type TransactionType string

const (
	TxInitialDeposit   TransactionType = "Initial Deposit"
	TxDeposit          TransactionType = "Deposit"
	TxWithdrawal       TransactionType = "Withdrawal"
	TxTransferSent     TransactionType = "Transfer Sent"
	TxTransferReceived TransactionType = "Transfer Received"
	TxInterestApplied  TransactionType = "Interest Applied"
)

// Transaction is one immutable entry in an account's history. The concrete
// types below form the closed set of variants; each carries exactly the
// fields its kind requires.
type Transaction interface {
	// Timestamp is the moment the transaction was recorded.
	Timestamp() time.Time

	// Type identifies the variant.
	Type() TransactionType

	// Amount is the unsigned amount of the transaction.
	Amount() decimal.Decimal

	// Signed is the transaction's effect on the account balance: negative
	// for withdrawals and sent transfers, positive otherwise.
	Signed() decimal.Decimal
}

// Details carries the fields shared by every transaction variant.
type Details struct {
	At    time.Time
	Value decimal.Decimal
}

func (d Details) Timestamp() time.Time    { return d.At }
func (d Details) Amount() decimal.Decimal { return d.Value }
func (d Details) Signed() decimal.Decimal { return d.Value }

// InitialDeposit funds an account at creation. Only recorded when the
// opening amount is positive.
type InitialDeposit struct {
	Details
}

func (t *InitialDeposit) Type() TransactionType { return TxInitialDeposit }

// Deposit credits an account.
type Deposit struct {
	Details
}

func (t *Deposit) Type() TransactionType { return TxDeposit }

// Withdrawal debits an account.
type Withdrawal struct {
	Details
}

func (t *Withdrawal) Type() TransactionType   { return TxWithdrawal }
func (t *Withdrawal) Signed() decimal.Decimal { return t.Value.Neg() }

// TransferSent debits the source side of a transfer. To references the
// receiving account number.
type TransferSent struct {
	Details
	To string
}

func (t *TransferSent) Type() TransactionType   { return TxTransferSent }
func (t *TransferSent) Signed() decimal.Decimal { return t.Value.Neg() }

// TransferReceived credits the destination side of a transfer. From
// references the sending account number.
type TransferReceived struct {
	Details
	From string
}

func (t *TransferReceived) Type() TransactionType { return TxTransferReceived }

// InterestApplied credits accrued interest. Rate is the rate that was used,
// kept so the history can show how the amount came about.
type InterestApplied struct {
	Details
	Rate decimal.Decimal
}

func (t *InterestApplied) Type() TransactionType { return TxInterestApplied }

// SumSigned returns the net balance effect of a sequence of transactions.
func SumSigned(txs []Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Signed())
	}
	return sum
}
