package models

import "time"

// Kind classifies a transaction as money in or money out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether the kind is one of the two known values.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single ledger entry owned by one user. Amount is in the
// smallest currency unit. The kind is serialized as "type" on the wire.
type Transaction struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"ownerId"`
	Description string    `db:"description" json:"description"`
	Kind        Kind      `db:"kind" json:"type"`
	Amount      int64     `db:"amount" json:"amount"`
	Date        Date      `db:"date" json:"date"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
