// Package ledgerservice manages business logic layer of the ledger.
package ledgerservice

import (
	"context"

	"github.com/Roboid537/banking-api/internal/domain"
	"github.com/Roboid537/banking-api/pkg/errorspkg"
	"github.com/Roboid537/banking-api/pkg/moneypkg"
	"github.com/Roboid537/banking-api/pkg/passpkg"

	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	OpenTx(ctx context.Context, arg domain.OpenAccountParams) (domain.Account, error)
	DepositTx(ctx context.Context, accountID int64, amount string) (domain.Account, error)
	WithdrawTx(ctx context.Context, accountID int64, amount string) (domain.Account, error)
	TransferTx(ctx context.Context, fromID, toID int64, amount string) (domain.TransferTxResult, error)
	GetAccount(ctx context.Context, id int64) (domain.Account, error)
	ListTransactions(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}

// Service facilitates ledger service layer logic.
type Service struct {
	repo Repo
}

// New returns ledger service struct to manage ledger business logic.
func New(r Repo) *Service {
	return &Service{repo: r}
}

// parsePositive validates a deposit, withdrawal or transfer amount.
// Such amounts must be strictly positive with at most two decimals.
func parsePositive(ctx context.Context, amount string) (moneypkg.Amount, error) {
	l := zerolog.Ctx(ctx)

	a, err := moneypkg.Parse(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return moneypkg.Amount{}, domain.ErrInvalidAmount
	}

	if !a.IsPositive() {
		return moneypkg.Amount{}, domain.ErrInvalidAmount
	}

	return a, nil
}

// Open creates a user with an account funded by the initial balance and
// records the opening deposit. The initial balance may be zero.
func (s *Service) Open(ctx context.Context, username, email, password, initialBalance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	balance, err := moneypkg.Parse(initialBalance)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, domain.ErrInvalidAmount
	}

	if balance.IsNegative() {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	arg := domain.OpenAccountParams{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		InitialBalance: balance.String(),
	}

	return s.repo.OpenTx(ctx, arg)
}

// Deposit adds the amount to the account and returns the updated account.
func (s *Service) Deposit(ctx context.Context, accountID int64, amount string) (domain.Account, error) {
	a, err := parsePositive(ctx, amount)
	if err != nil {
		return domain.Account{}, err
	}

	return s.repo.DepositTx(ctx, accountID, a.String())
}

// Withdraw subtracts the amount from the account and returns the updated
// account. It fails with ErrInsufficientFunds if the balance does not
// cover the amount.
func (s *Service) Withdraw(ctx context.Context, accountID int64, amount string) (domain.Account, error) {
	a, err := parsePositive(ctx, amount)
	if err != nil {
		return domain.Account{}, err
	}

	return s.repo.WithdrawTx(ctx, accountID, a.String())
}

// Transfer moves the amount between the two accounts and returns both
// updated accounts with their transaction records.
func (s *Service) Transfer(ctx context.Context, fromID, toID int64, amount string) (domain.TransferTxResult, error) {
	a, err := parsePositive(ctx, amount)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	return s.repo.TransferTx(ctx, fromID, toID, a.String())
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// History returns the account's committed transaction records, newest first.
func (s *Service) History(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx, accountID)
}
