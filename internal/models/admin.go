package models

// PeriodCounts buckets a count by recency.
type PeriodCounts struct {
	Today     int64 `json:"today"`
	ThisWeek  int64 `json:"thisWeek"`
	ThisMonth int64 `json:"thisMonth"`
}

// KindCounts is the number of transactions per kind.
type KindCounts struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

// Extreme is an extremal aggregate value together with every owner sharing
// it. Ties list all owners, never an arbitrary one.
type Extreme struct {
	Amount int64    `json:"amount"`
	Owners []string `json:"owners"`
}

// AdminStats is the cross-owner reporting view pushed to admin sessions
// after every mutation.
type AdminStats struct {
	TotalOwners     int64        `json:"totalOwners"`
	ActiveOwners    int64        `json:"activeOwners"`
	InactiveOwners  int64        `json:"inactiveOwners"`
	NewOwners       PeriodCounts `json:"newOwners"`
	NewTransactions PeriodCounts `json:"newTransactions"`
	CountByKind     KindCounts   `json:"countByKind"`
	AverageAmount   float64      `json:"averageAmount"`
	Totals          Totals       `json:"totals"`
	MaxIncome       Extreme      `json:"maxIncome"`
	MinIncome       Extreme      `json:"minIncome"`
	MaxExpense      Extreme      `json:"maxExpense"`
	MinExpense      Extreme      `json:"minExpense"`
	MaxBalance      Extreme      `json:"maxBalance"`
	MinBalance      Extreme      `json:"minBalance"`
}
