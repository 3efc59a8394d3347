// Package ledgerrepo provides the atomic units that mutate balances and
// append their transaction records all-or-nothing.
package ledgerrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Roboid537/banking-api/internal/accountrepo"
	"github.com/Roboid537/banking-api/internal/domain"
	"github.com/Roboid537/banking-api/internal/transactionrepo"
	"github.com/Roboid537/banking-api/internal/userrepo"
	"github.com/Roboid537/banking-api/pkg/dbpkg"
	"github.com/Roboid537/banking-api/pkg/errorspkg"
	"github.com/Roboid537/banking-api/pkg/moneypkg"

	"github.com/rs/zerolog"
)

// Transaction record descriptions. They match the records written by the
// operations that created the historical data, so keep them stable.
const (
	descInitialDeposit = "Initial deposit"
	descDeposit        = "Deposit"
	descWithdrawal     = "Withdrawal"
	descTransferTo     = "Transfer to account %d"
	descTransferFrom   = "Transfer from account %d"
)

// RepoPGS runs ledger atomic units on a PostgreSQL connection.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns ledger RepoPGS.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{conn: conn}
}

// unit bundles the row-level repositories bound to one transaction.
type unit struct {
	users        *userrepo.RepoPGS
	accounts     *accountrepo.RepoPGS
	transactions *transactionrepo.RepoPGS
}

// execTx runs fn inside a database transaction. The transaction commits
// only if fn returns nil; any failure rolls back every write.
func (r *RepoPGS) execTx(ctx context.Context, fn func(u unit) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()

		if dbpkg.IsUnavailable(err) {
			return errorspkg.ErrStoreUnavailable
		}

		return errorspkg.ErrInternal
	}

	u := unit{
		users:        userrepo.NewRepoPGS(tx),
		accounts:     accountrepo.NewRepoPGS(tx),
		transactions: transactionrepo.NewRepoPGS(tx),
	}

	if err := fn(u); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			l.Error().Err(rbErr).Msg("rollback failed")
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()

		if dbpkg.IsSerializationFailure(err) {
			return domain.ErrTxConflict
		}

		if dbpkg.IsUnavailable(err) {
			return errorspkg.ErrStoreUnavailable
		}

		return errorspkg.ErrInternal
	}

	return nil
}

// OpenTx creates the owning user, the account and its opening DEPOSIT
// record in one atomic unit.
func (r *RepoPGS) OpenTx(ctx context.Context, arg domain.OpenAccountParams) (domain.Account, error) {
	var account domain.Account

	err := r.execTx(ctx, func(u unit) error {
		if _, err := u.users.Create(ctx, arg.Username, arg.Email, arg.HashedPassword); err != nil {
			return err
		}

		var err error

		account, err = u.accounts.Create(ctx, arg.Username, arg.InitialBalance)
		if err != nil {
			return err
		}

		_, err = u.transactions.Create(ctx, account.ID, arg.InitialBalance, domain.KindDeposit, descInitialDeposit)

		return err
	})

	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// DepositTx adds amount to the account balance and appends the matching
// DEPOSIT record. The balance update takes the row lock, so concurrent
// deposits serialize on it.
func (r *RepoPGS) DepositTx(ctx context.Context, accountID int64, amount string) (domain.Account, error) {
	var account domain.Account

	err := r.execTx(ctx, func(u unit) error {
		var err error

		account, err = u.accounts.AddBalance(ctx, amount, accountID)
		if err != nil {
			return err
		}

		_, err = u.transactions.Create(ctx, accountID, amount, domain.KindDeposit, descDeposit)

		return err
	})

	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// WithdrawTx subtracts amount from the account balance and appends the
// matching WITHDRAWAL record. The balance is checked under the row lock;
// an insufficient balance rolls back without any write.
func (r *RepoPGS) WithdrawTx(ctx context.Context, accountID int64, amount string) (domain.Account, error) {
	var account domain.Account

	err := r.execTx(ctx, func(u unit) error {
		locked, err := u.accounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		if err := checkBalance(locked.Balance, amount); err != nil {
			return err
		}

		account, err = u.accounts.AddBalance(ctx, "-"+amount, accountID)
		if err != nil {
			return err
		}

		_, err = u.transactions.Create(ctx, accountID, amount, domain.KindWithdrawal, descWithdrawal)

		return err
	})

	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// TransferTx moves amount between two accounts and appends one TRANSFER
// record on each side, all in one atomic unit.
//
// Both rows are locked in ascending id order regardless of direction so
// that concurrent opposite-direction transfers cannot deadlock. A
// self-transfer locks its single row once, leaves the balance unchanged
// and still appends the paired records.
func (r *RepoPGS) TransferTx(ctx context.Context, fromID, toID int64, amount string) (domain.TransferTxResult, error) {
	var result domain.TransferTxResult

	err := r.execTx(ctx, func(u unit) error {
		from, _, err := lockPair(ctx, u.accounts, fromID, toID)
		if err != nil {
			return err
		}

		if err := checkBalance(from.Balance, amount); err != nil {
			return err
		}

		if fromID == toID {
			result.FromAccount = from
			result.ToAccount = from
		} else {
			// Apply the updates in the same ascending order as the locks.
			if fromID < toID {
				result.FromAccount, err = u.accounts.AddBalance(ctx, "-"+amount, fromID)
				if err != nil {
					return err
				}

				result.ToAccount, err = u.accounts.AddBalance(ctx, amount, toID)
			} else {
				result.ToAccount, err = u.accounts.AddBalance(ctx, amount, toID)
				if err != nil {
					return err
				}

				result.FromAccount, err = u.accounts.AddBalance(ctx, "-"+amount, fromID)
			}

			if err != nil {
				return err
			}
		}

		result.FromTransaction, err = u.transactions.Create(
			ctx, fromID, amount, domain.KindTransfer, fmt.Sprintf(descTransferTo, toID))
		if err != nil {
			return err
		}

		result.ToTransaction, err = u.transactions.Create(
			ctx, toID, amount, domain.KindTransfer, fmt.Sprintf(descTransferFrom, fromID))

		return err
	})

	if err != nil {
		return domain.TransferTxResult{}, err
	}

	return result, nil
}

// GetAccount returns the account with the given id.
func (r *RepoPGS) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	return accountrepo.NewRepoPGS(r.conn).Get(ctx, id)
}

// ListTransactions returns all committed transaction records for the
// account, newest first.
func (r *RepoPGS) ListTransactions(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	if _, err := accountrepo.NewRepoPGS(r.conn).Get(ctx, accountID); err != nil {
		return nil, err
	}

	return transactionrepo.NewRepoPGS(r.conn).ListByAccount(ctx, accountID)
}

// lockPair locks the two account rows in ascending id order and returns
// them as (from, to). A single id is locked exactly once.
func lockPair(ctx context.Context, accounts *accountrepo.RepoPGS, fromID, toID int64) (domain.Account, domain.Account, error) {
	if fromID == toID {
		a, err := accounts.GetForUpdate(ctx, fromID)
		return a, a, err
	}

	first, second := fromID, toID
	if toID < fromID {
		first, second = toID, fromID
	}

	firstAcc, err := accounts.GetForUpdate(ctx, first)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	secondAcc, err := accounts.GetForUpdate(ctx, second)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	if first == fromID {
		return firstAcc, secondAcc, nil
	}

	return secondAcc, firstAcc, nil
}

// checkBalance fails with ErrInsufficientFunds if balance < amount.
// Both values are canonical two-decimal strings from the store.
func checkBalance(balance, amount string) error {
	b, err := moneypkg.Parse(balance)
	if err != nil {
		return errorspkg.ErrInternal
	}

	a, err := moneypkg.Parse(amount)
	if err != nil {
		return errorspkg.ErrInternal
	}

	if b.LessThan(a) {
		return domain.ErrInsufficientFunds
	}

	return nil
}
