package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultInterestRate is the annual rate used when none is given (1.5%).
var DefaultInterestRate = decimal.New(15, -3)

// OpenAccount creates an account for a customer with an opening balance of
// at least zero. An Initial Deposit transaction is recorded only when the
// amount is positive; a zero opening leaves an empty history. The new number
// is appended to the owner's account list.
func (l *Ledger) OpenAccount(ownerNIC string, initialDeposit decimal.Decimal) (*Account, error) {
	owner, ok := l.users[ownerNIC]
	if !ok {
		return nil, &NotFoundError{Kind: "user", ID: ownerNIC}
	}
	if !owner.IsCustomer() {
		return nil, &ValidationError{Field: "owner", Reason: "only customers can hold accounts"}
	}
	if initialDeposit.IsNegative() {
		return nil, &AmountError{Op: "initial deposit", Amount: initialDeposit, Reason: "cannot be negative"}
	}

	ts := now()
	a := &Account{
		Number:       l.allocateAccountNumber(),
		OwnerNIC:     ownerNIC,
		Balance:      initialDeposit,
		CreatedAt:    ts,
		Transactions: []Transaction{},
	}
	if initialDeposit.IsPositive() {
		a.record(&InitialDeposit{Details: Details{At: ts, Value: initialDeposit}})
	}
	l.accounts[a.Number] = a
	owner.OwnedAccounts = append(owner.OwnedAccounts, a.Number)
	return a, nil
}

// Deposit credits a positive amount to an account.
func (l *Ledger) Deposit(number string, amount decimal.Decimal) (*Account, error) {
	if !amount.IsPositive() {
		return nil, &AmountError{Op: "deposit", Amount: amount, Reason: "must be positive"}
	}
	a, ok := l.accounts[number]
	if !ok {
		return nil, &NotFoundError{Kind: "account", ID: number}
	}
	a.Balance = a.Balance.Add(amount)
	a.record(&Deposit{Details: Details{At: now(), Value: amount}})
	return a, nil
}

// Withdraw debits a positive amount from an account. The balance can never
// go below zero; an overdraw attempt fails without touching the account.
func (l *Ledger) Withdraw(number string, amount decimal.Decimal) (*Account, error) {
	if !amount.IsPositive() {
		return nil, &AmountError{Op: "withdrawal", Amount: amount, Reason: "must be positive"}
	}
	a, ok := l.accounts[number]
	if !ok {
		return nil, &NotFoundError{Kind: "account", ID: number}
	}
	if amount.GreaterThan(a.Balance) {
		return nil, &InsufficientFundsError{Account: number, Requested: amount, Available: a.Balance}
	}
	a.Balance = a.Balance.Sub(amount)
	a.record(&Withdrawal{Details: Details{At: now(), Value: amount}})
	return a, nil
}

// Transfer moves a positive amount between two distinct accounts as one
// logical unit: all checks run first, then both balances move and both
// sides record a linked transaction. There is no path on which only one
// side updates.
func (l *Ledger) Transfer(sourceNumber, destNumber string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &AmountError{Op: "transfer", Amount: amount, Reason: "must be positive"}
	}
	if sourceNumber == destNumber {
		return &SelfTransferError{Account: sourceNumber}
	}
	source, ok := l.accounts[sourceNumber]
	if !ok {
		return &NotFoundError{Kind: "account", ID: sourceNumber}
	}
	dest, ok := l.accounts[destNumber]
	if !ok {
		return &NotFoundError{Kind: "account", ID: destNumber}
	}
	if amount.GreaterThan(source.Balance) {
		return &InsufficientFundsError{Account: sourceNumber, Requested: amount, Available: source.Balance}
	}

	ts := now()
	source.Balance = source.Balance.Sub(amount)
	dest.Balance = dest.Balance.Add(amount)
	source.record(&TransferSent{Details: Details{At: ts, Value: amount}, To: destNumber})
	dest.record(&TransferReceived{Details: Details{At: ts, Value: amount}, From: sourceNumber})
	return nil
}

// AccrueInterest credits interest to every account with a positive balance.
// Interest is the balance times the rate, rounded to two decimal places;
// accounts where that rounds to zero or less are skipped, as are accounts
// with zero or (defensively) negative balances. Returns how many accounts
// were credited and the total distributed.
func (l *Ledger) AccrueInterest(rate decimal.Decimal) (int, decimal.Decimal) {
	applied := 0
	total := decimal.Zero

	// Deterministic sweep order so histories and totals are reproducible.
	numbers := make([]string, 0, len(l.accounts))
	for num := range l.accounts {
		numbers = append(numbers, num)
	}
	sort.Strings(numbers)

	ts := now()
	for _, num := range numbers {
		a := l.accounts[num]
		if !a.Balance.IsPositive() {
			continue
		}
		interest := a.Balance.Mul(rate).Round(2)
		if !interest.IsPositive() {
			continue
		}
		a.Balance = a.Balance.Add(interest)
		a.record(&InterestApplied{Details: Details{At: ts, Value: interest}, Rate: rate})
		applied++
		total = total.Add(interest)
	}
	return applied, total
}
