package service

import (
	"sort"

	"pravacash/internal/models"
)

// BuildLedgerView derives the display-ordered, balance-annotated view of one
// owner's transactions. Pure: the input slice is not modified and repeated
// calls yield identical results.
//
// Running balances accumulate oldest-first (date, then creation timestamp;
// a missing creation timestamp sorts as zero). The returned entries are in
// display order: most recent first. Totals are computed independently of the
// running sequence; the final running balance always equals Income - Expense.
func BuildLedgerView(transactions []models.Transaction) models.LedgerView {
	entries := make([]models.LedgerEntry, 0, len(transactions))
	for _, tx := range transactions {
		entries = append(entries, models.LedgerEntry{Transaction: tx})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return chronologicallyBefore(entries[i].Transaction, entries[j].Transaction)
	})

	var running int64
	for i := range entries {
		if entries[i].Kind == models.KindIncome {
			running += entries[i].Amount
		} else {
			running -= entries[i].Amount
		}
		entries[i].RunningBalance = running
	}

	// Ascending order reversed is the display order: date descending, then
	// creation timestamp descending.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	var totals models.Totals
	for _, tx := range transactions {
		if tx.Kind == models.KindIncome {
			totals.Income += tx.Amount
		} else {
			totals.Expense += tx.Amount
		}
	}
	totals.Balance = totals.Income - totals.Expense

	return models.LedgerView{Entries: entries, Totals: totals}
}

func chronologicallyBefore(a, b models.Transaction) bool {
	if !a.Date.Time().Equal(b.Date.Time()) {
		return a.Date.Before(b.Date)
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
