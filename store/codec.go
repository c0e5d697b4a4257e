// Package store persists the ledger to three flat text files: one line per
// user, one line per account, and a single-integer counter file. It owns the
// record codec, the whole-file load/save cycle, the corruption recovery
// policy, and the first-run bootstrap.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pereira90/banknow/ledger"
)

const (
	userFieldCount    = 7
	accountFieldCount = 5
)

// MalformedRecordError is returned when a line cannot be decoded at all.
// Loading skips such lines; it never aborts on them.
type MalformedRecordError struct {
	Kind   string // "user" or "account"
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record: %s", e.Kind, e.Reason)
}

// EncodeUser renders a user as one delimited line. Only customers persist an
// owned-accounts sub-list; the field stays empty for admins.
func EncodeUser(u *ledger.User) string {
	var owned string
	if u.IsCustomer() {
		owned = strings.Join(u.OwnedAccounts, ledger.ListDelimiter)
	}
	return strings.Join([]string{
		u.NIC,
		u.Name,
		u.Address,
		u.DOB,
		u.PasswordHash,
		string(u.Role),
		owned,
	}, ledger.FieldDelimiter)
}

// DecodeUser parses one users-file line. The line must split into exactly
// seven fields and carry a known role. A customer's empty sub-list decodes
// to an empty slice; stray sub-list data on an admin line is tolerated and
// dropped, matching what earlier versions of the data may contain.
func DecodeUser(line string) (*ledger.User, error) {
	parts := strings.Split(line, ledger.FieldDelimiter)
	if len(parts) != userFieldCount {
		return nil, &MalformedRecordError{
			Kind:   "user",
			Reason: fmt.Sprintf("expected %d fields, got %d", userFieldCount, len(parts)),
		}
	}

	role := ledger.Role(parts[5])
	if !role.Valid() {
		return nil, &MalformedRecordError{Kind: "user", Reason: fmt.Sprintf("unknown role %q", parts[5])}
	}

	u := &ledger.User{
		NIC:          parts[0],
		Name:         parts[1],
		Address:      parts[2],
		DOB:          parts[3],
		PasswordHash: parts[4],
		Role:         role,
	}
	if u.IsCustomer() {
		u.OwnedAccounts = splitList(parts[6])
	}
	return u, nil
}

// EncodeAccount renders an account as one delimited line with the
// transaction history embedded as a JSON array in the final field.
func EncodeAccount(a *ledger.Account) string {
	return strings.Join([]string{
		a.Number,
		a.OwnerNIC,
		a.Balance.String(),
		a.CreatedAt.Format(ledger.TimestampLayout),
		encodeTransactions(a.Transactions),
	}, ledger.FieldDelimiter)
}

// DecodeAccount parses one accounts-file line. The line must split into
// exactly five fields; within a structurally sound line the codec recovers
// rather than rejects: an unparsable balance defaults to zero, an unparsable
// creation timestamp to the zero time, and an unparsable transaction blob to
// an empty history. Each recovery is reported in warns so the caller can
// surface the data loss instead of hiding it.
func DecodeAccount(line string) (a *ledger.Account, warns []string, err error) {
	parts := strings.Split(line, ledger.FieldDelimiter)
	if len(parts) != accountFieldCount {
		return nil, nil, &MalformedRecordError{
			Kind:   "account",
			Reason: fmt.Sprintf("expected %d fields, got %d", accountFieldCount, len(parts)),
		}
	}

	number := parts[0]

	balance, derr := decimal.NewFromString(parts[2])
	if derr != nil {
		balance = decimal.Zero
		warns = append(warns, fmt.Sprintf("account %s: unparsable balance %q, defaulting to 0", number, parts[2]))
	}

	createdAt, terr := time.ParseInLocation(ledger.TimestampLayout, parts[3], time.Local)
	if terr != nil {
		createdAt = time.Time{}
		warns = append(warns, fmt.Sprintf("account %s: unparsable creation timestamp %q", number, parts[3]))
	}

	txs, txWarns := decodeTransactions(number, parts[4])
	warns = append(warns, txWarns...)

	return &ledger.Account{
		Number:       number,
		OwnerNIC:     parts[1],
		Balance:      balance,
		CreatedAt:    createdAt,
		Transactions: txs,
	}, warns, nil
}

// txRecord is the JSON envelope for one transaction within the embedded
// blob. Key names match the original data files, so histories written by
// earlier versions load unchanged.
type txRecord struct {
	Timestamp string           `json:"timestamp"`
	Type      string           `json:"type"`
	Amount    decimal.Decimal  `json:"amount"`
	To        string           `json:"to_account,omitempty"`
	From      string           `json:"from_account,omitempty"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
}

func encodeTransactions(txs []ledger.Transaction) string {
	records := make([]txRecord, 0, len(txs))
	for _, tx := range txs {
		rec := txRecord{
			Timestamp: tx.Timestamp().Format(ledger.TimestampLayout),
			Type:      string(tx.Type()),
			Amount:    tx.Amount(),
		}
		switch t := tx.(type) {
		case *ledger.TransferSent:
			rec.To = t.To
		case *ledger.TransferReceived:
			rec.From = t.From
		case *ledger.InterestApplied:
			rate := t.Rate
			rec.Rate = &rate
		}
		records = append(records, rec)
	}
	blob, err := json.Marshal(records)
	if err != nil {
		// Only unmarshalable values can fail here, and txRecord has none.
		return "[]"
	}
	return string(blob)
}

// decodeTransactions parses the embedded blob. A blob that is not a JSON
// array degrades to an empty history; individual records with an unknown
// type or unparsable timestamp are skipped. Both degradations are reported
// as warnings.
func decodeTransactions(number, blob string) ([]ledger.Transaction, []string) {
	var records []txRecord
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return []ledger.Transaction{}, []string{
			fmt.Sprintf("account %s: unparsable transaction history, defaulting to empty", number),
		}
	}

	var warns []string
	txs := make([]ledger.Transaction, 0, len(records))
	for i, rec := range records {
		tx, err := rec.toTransaction()
		if err != nil {
			warns = append(warns, fmt.Sprintf("account %s: skipping transaction %d: %v", number, i, err))
			continue
		}
		txs = append(txs, tx)
	}
	return txs, warns
}

func (rec txRecord) toTransaction() (ledger.Transaction, error) {
	at, err := time.ParseInLocation(ledger.TimestampLayout, rec.Timestamp, time.Local)
	if err != nil {
		return nil, fmt.Errorf("unparsable timestamp %q", rec.Timestamp)
	}
	details := ledger.Details{At: at, Value: rec.Amount}

	switch ledger.TransactionType(rec.Type) {
	case ledger.TxInitialDeposit:
		return &ledger.InitialDeposit{Details: details}, nil
	case ledger.TxDeposit:
		return &ledger.Deposit{Details: details}, nil
	case ledger.TxWithdrawal:
		return &ledger.Withdrawal{Details: details}, nil
	case ledger.TxTransferSent:
		return &ledger.TransferSent{Details: details, To: rec.To}, nil
	case ledger.TxTransferReceived:
		return &ledger.TransferReceived{Details: details, From: rec.From}, nil
	case ledger.TxInterestApplied:
		rate := decimal.Zero
		if rec.Rate != nil {
			rate = *rec.Rate
		}
		return &ledger.InterestApplied{Details: details, Rate: rate}, nil
	default:
		return nil, fmt.Errorf("unknown type %q", rec.Type)
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ledger.ListDelimiter) {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
