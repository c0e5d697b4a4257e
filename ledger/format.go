package ledger

import "strings"

// The persisted record format reserves two delimiters. They are part of the
// domain contract rather than a storage detail: user input (most importantly
// the NIC, which becomes a record key) must never contain either of them.
const (
	// FieldDelimiter separates fields within a persisted record line.
	FieldDelimiter = "|~|"

	// ListDelimiter separates items within a persisted sub-list, such as a
	// customer's owned account numbers.
	ListDelimiter = ";"

	// TimestampLayout is the wire format for all persisted timestamps.
	TimestampLayout = "2006-01-02 15:04:05"
)

// ContainsReservedDelimiter reports whether s contains either delimiter
// reserved by the record format.
func ContainsReservedDelimiter(s string) bool {
	return strings.Contains(s, FieldDelimiter) || strings.Contains(s, ListDelimiter)
}
