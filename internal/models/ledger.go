package models

// LedgerEntry is a transaction annotated with the cumulative balance up to
// and including it, in chronological order.
type LedgerEntry struct {
	Transaction
	RunningBalance int64 `json:"runningBalance"`
}

// Totals aggregates one owner's ledger. Balance is always Income - Expense.
type Totals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

// LedgerView is the derived, display-ordered projection of one owner's
// transactions. It is recomputed per query and never persisted.
type LedgerView struct {
	Entries []LedgerEntry `json:"entries"`
	Totals  Totals        `json:"totals"`
}
