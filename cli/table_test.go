package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/pereira90/banknow/ledger"
)

func money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	assert.NoError(t, err)
	return d
}

// TestFormatCurrency pins the display format: symbol, thousands separators,
// two decimal places.
func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "$0.00"},
		{"0.5", "$0.50"},
		{"100", "$100.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.89", "$1,234,567.89"},
		{"-42.10", "$-42.10"},
	}
	for _, tt := range tests {
		assert.Equal(t, formatCurrency(money(t, tt.amount)), tt.want)
	}
}

// TestFormatRate verifies a decimal fraction renders as an annual
// percentage.
func TestFormatRate(t *testing.T) {
	assert.Equal(t, formatRate(money(t, "0.015")), "1.5% p.a.")
	assert.Equal(t, formatRate(money(t, "0.1")), "10% p.a.")
}

// TestTransactionDetails covers the variant-specific history column.
func TestTransactionDetails(t *testing.T) {
	at := time.Now()
	details := ledger.Details{At: at, Value: money(t, "10.00")}

	assert.Equal(t, transactionDetails(&ledger.Deposit{Details: details}), "")
	assert.Equal(t, transactionDetails(&ledger.Withdrawal{Details: details}), "")
	assert.Equal(t, transactionDetails(&ledger.TransferSent{Details: details, To: "1002"}), "To Acct: 1002")
	assert.Equal(t, transactionDetails(&ledger.TransferReceived{Details: details, From: "1001"}), "From Acct: 1001")
	assert.Equal(t,
		transactionDetails(&ledger.InterestApplied{Details: details, Rate: money(t, "0.015")}),
		"Rate: 1.5% p.a.")
}

// TestRenderTable verifies columns pad to the widest cell and every row
// makes it into the output.
func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf,
		[]string{"NIC", "Name"},
		[][]string{
			{"900151234V", "Jane Doe"},
			{"x", "John"},
		},
	)
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, len(lines), 4)
	assert.Contains(t, lines[0], "NIC")
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[1], "---")
	assert.Equal(t, lines[2], "900151234V  Jane Doe")

	// The short NIC pads out to the widest cell in its column.
	assert.Equal(t, lines[3], "x           John")
}
