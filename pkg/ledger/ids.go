package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// Identifier prefixes, one namespace per entity.
const (
	CustomerIDPrefix        = "CID"
	LoanIDPrefix            = "L"
	RepaymentIDPrefix       = "R"
	ReceiptIDPrefix         = "RCP"
	HistoryIDPrefix         = "H"
	FundTransactionIDPrefix = "F"
)

// NextID produces the next sequential human-readable identifier for a prefix
// by scanning the existing ones. Entries that do not parse as prefix+number
// are ignored. The numeric part is zero-padded to at least three digits.
func NextID(prefix string, existing []string) string {
	maxNum := 0
	for _, id := range existing {
		rest := strings.TrimPrefix(id, prefix)
		if rest == id {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if n > maxNum {
			maxNum = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, maxNum+1)
}
