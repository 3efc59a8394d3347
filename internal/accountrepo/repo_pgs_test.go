package accountrepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/Roboid537/banking-api/internal/domain"
	"github.com/Roboid537/banking-api/internal/userrepo"
	"github.com/Roboid537/banking-api/pkg/configpkg"
	"github.com/Roboid537/banking-api/pkg/passpkg"
	"github.com/Roboid537/banking-api/pkg/randompkg"
	"github.com/stretchr/testify/require"
)

var (
	testRepo     *RepoPGS
	testUserRepo *userrepo.RepoPGS
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	testDB, err := sql.Open(config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal("cannot connect to db:", err)
	}

	testRepo = NewRepoPGS(testDB)
	testUserRepo = userrepo.NewRepoPGS(testDB)

	os.Exit(m.Run())
}

func createRandomUser(t *testing.T) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	require.NoError(t, err)

	user, err := testUserRepo.Create(context.Background(), randompkg.Owner(), randompkg.Email(), hashedPassword)
	require.NoError(t, err)
	require.NotEmpty(t, user)

	return user
}

func createRandomAccount(t *testing.T, user domain.User) domain.Account {
	t.Helper()

	balance := randompkg.MoneyAmountBetween(1_000, 10_000)

	account, err := testRepo.Create(context.Background(), user.Username, balance)
	require.NoError(t, err)
	require.NotEmpty(t, account)

	require.Equal(t, user.Username, account.Owner)
	require.Equal(t, balance, account.Balance)
	require.NotZero(t, account.ID)
	require.NotZero(t, account.CreatedAt)

	return account
}

func TestCreate(t *testing.T) {
	user := createRandomUser(t)
	createRandomAccount(t, user)
}

func TestCreateOwnerNotFound(t *testing.T) {
	account, err := testRepo.Create(context.Background(), "missing-owner", "100.00")
	require.EqualError(t, err, domain.ErrUserNotFound.Error())
	require.Empty(t, account)
}

func TestCreateNegativeBalance(t *testing.T) {
	user := createRandomUser(t)

	account, err := testRepo.Create(context.Background(), user.Username, "-100.00")
	require.EqualError(t, err, domain.ErrInvalidAmount.Error())
	require.Empty(t, account)
}

func TestGet(t *testing.T) {
	user := createRandomUser(t)
	account := createRandomAccount(t, user)

	got, err := testRepo.Get(context.Background(), account.ID)
	require.NoError(t, err)

	require.Equal(t, account.ID, got.ID)
	require.Equal(t, account.Owner, got.Owner)
	require.Equal(t, account.Balance, got.Balance)
	require.WithinDuration(t, account.CreatedAt, got.CreatedAt, 0)
}

func TestGetNotFound(t *testing.T) {
	got, err := testRepo.Get(context.Background(), -1)
	require.EqualError(t, err, domain.ErrAccountNotFound.Error())
	require.Empty(t, got)
}

func TestAddBalance(t *testing.T) {
	user := createRandomUser(t)

	account, err := testRepo.Create(context.Background(), user.Username, "1000.00")
	require.NoError(t, err)

	updated, err := testRepo.AddBalance(context.Background(), "250.50", account.ID)
	require.NoError(t, err)
	require.Equal(t, "1250.50", updated.Balance)

	updated, err = testRepo.AddBalance(context.Background(), "-250.50", account.ID)
	require.NoError(t, err)
	require.Equal(t, "1000.00", updated.Balance)
}

func TestAddBalanceBelowZero(t *testing.T) {
	user := createRandomUser(t)

	account, err := testRepo.Create(context.Background(), user.Username, "100.00")
	require.NoError(t, err)

	// The schema-level check backs the non-negativity invariant even if
	// a caller skips the balance check.
	_, err = testRepo.AddBalance(context.Background(), "-100.01", account.ID)
	require.EqualError(t, err, domain.ErrInsufficientFunds.Error())

	unchanged, err := testRepo.Get(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, "100.00", unchanged.Balance)
}

func TestAddBalanceNotFound(t *testing.T) {
	_, err := testRepo.AddBalance(context.Background(), "100.00", -1)
	require.EqualError(t, err, domain.ErrAccountNotFound.Error())
}
