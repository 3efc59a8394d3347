package domain

import "time"

// TransactionKind is the category of a transaction. The direction of a
// TRANSFER relative to an account is carried by its description.
type TransactionKind string

// All transaction kinds.
const (
	KindDeposit    TransactionKind = "DEPOSIT"
	KindWithdrawal TransactionKind = "WITHDRAWAL"
	KindTransfer   TransactionKind = "TRANSFER"
)

// Transaction is an immutable record of a single balance change.
//
// Amount is always a positive magnitude. Records are append-only and are
// never updated or deleted.
type Transaction struct {
	ID          int64           `json:"id"`
	AccountID   int64           `json:"account_id"`
	Amount      string          `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TransferTxResult is the result of the transfer atomic unit.
type TransferTxResult struct {
	FromAccount     Account     `json:"from_account"`
	ToAccount       Account     `json:"to_account"`
	FromTransaction Transaction `json:"from_transaction"`
	ToTransaction   Transaction `json:"to_transaction"`
}
