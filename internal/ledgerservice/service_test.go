package ledgerservice

import (
	"context"
	"testing"
	"time"

	"github.com/Roboid537/banking-api/internal/domain"
	"github.com/Roboid537/banking-api/pkg/errorspkg"
	"github.com/Roboid537/banking-api/pkg/randompkg"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func randomAccount(id int64, balance string) domain.Account {
	return domain.Account{
		ID:        id,
		Owner:     randompkg.Owner(),
		Balance:   balance,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func TestOpen(t *testing.T) {
	testAccount := randomAccount(1, "1000.00")

	testCases := []struct {
		name           string
		initialBalance string
		buildStubs     func(repo *MockRepo)
		checkResponse  func(res domain.Account, err error)
	}{
		{
			name:           "OK",
			initialBalance: "1000.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					OpenTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(testAccount, nil)
			},
			checkResponse: func(res domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, testAccount, res)
			},
		},
		{
			name:           "ZeroInitialBalance",
			initialBalance: "0",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					OpenTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(randomAccount(2, "0.00"), nil)
			},
			checkResponse: func(res domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, "0.00", res.Balance)
			},
		},
		{
			name:           "MalformedInitialBalance",
			initialBalance: "!@#$",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().OpenTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name:           "NegativeInitialBalance",
			initialBalance: "-100",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().OpenTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name:           "TooPreciseInitialBalance",
			initialBalance: "100.001",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().OpenTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			service := New(repo)

			res, err := service.Open(context.Background(),
				randompkg.Owner(), randompkg.Email(), randompkg.String(10), tc.initialBalance)

			tc.checkResponse(res, err)
		})
	}
}

func TestOpenNormalizesAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)

	// "500" must reach the store as the canonical "500.00".
	repo.EXPECT().
		OpenTx(gomock.Any(), openTxBalanceMatcher("500.00")).
		Times(1).
		Return(randomAccount(1, "500.00"), nil)

	service := New(repo)

	_, err := service.Open(context.Background(),
		randompkg.Owner(), randompkg.Email(), randompkg.String(10), "500")
	require.NoError(t, err)
}

type openTxBalanceMatcher string

func (m openTxBalanceMatcher) Matches(x interface{}) bool {
	arg, ok := x.(domain.OpenAccountParams)
	return ok && arg.InitialBalance == string(m)
}

func (m openTxBalanceMatcher) String() string {
	return "has initial balance " + string(m)
}

func TestDeposit(t *testing.T) {
	testAccount := randomAccount(1, "1200.00")

	testCases := []struct {
		name          string
		amount        string
		buildStubs    func(repo *MockRepo)
		checkResponse func(res domain.Account, err error)
	}{
		{
			name:   "OK",
			amount: "200.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					DepositTx(gomock.Any(), gomock.Eq(testAccount.ID), gomock.Eq("200.00")).
					Times(1).
					Return(testAccount, nil)
			},
			checkResponse: func(res domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, testAccount, res)
			},
		},
		{
			name:   "ZeroAmount",
			amount: "0",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name:   "NegativeAmount",
			amount: "-200.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name:   "MalformedAmount",
			amount: "20x.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name:   "RepoError",
			amount: "200.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					DepositTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrAccountNotFound.Error())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			service := New(repo)

			res, err := service.Deposit(context.Background(), testAccount.ID, tc.amount)

			tc.checkResponse(res, err)
		})
	}
}

func TestWithdraw(t *testing.T) {
	testAccount := randomAccount(1, "800.00")

	testCases := []struct {
		name          string
		amount        string
		buildStubs    func(repo *MockRepo)
		checkResponse func(res domain.Account, err error)
	}{
		{
			name:   "OK",
			amount: "200.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					WithdrawTx(gomock.Any(), gomock.Eq(testAccount.ID), gomock.Eq("200.00")).
					Times(1).
					Return(testAccount, nil)
			},
			checkResponse: func(res domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, testAccount, res)
			},
		},
		{
			name:   "ZeroAmount",
			amount: "0.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().WithdrawTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name:   "InsufficientFunds",
			amount: "1200.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					WithdrawTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrInsufficientFunds)
			},
			checkResponse: func(res domain.Account, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInsufficientFunds.Error())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			service := New(repo)

			res, err := service.Withdraw(context.Background(), testAccount.ID, tc.amount)

			tc.checkResponse(res, err)
		})
	}
}

func TestTransfer(t *testing.T) {
	testAccount1 := randomAccount(1, "700.00")
	testAccount2 := randomAccount(2, "800.00")

	testResult := domain.TransferTxResult{
		FromAccount: testAccount1,
		ToAccount:   testAccount2,
		FromTransaction: domain.Transaction{
			AccountID: testAccount1.ID,
			Amount:    "300.00",
			Kind:      domain.KindTransfer,
		},
		ToTransaction: domain.Transaction{
			AccountID: testAccount2.ID,
			Amount:    "300.00",
			Kind:      domain.KindTransfer,
		},
	}

	testCases := []struct {
		name          string
		amount        string
		buildStubs    func(repo *MockRepo)
		checkResponse func(res domain.TransferTxResult, err error)
	}{
		{
			name:   "OK",
			amount: "300.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					TransferTx(gomock.Any(), gomock.Eq(testAccount1.ID), gomock.Eq(testAccount2.ID), gomock.Eq("300.00")).
					Times(1).
					Return(testResult, nil)
			},
			checkResponse: func(res domain.TransferTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, testResult, res)
			},
		},
		{
			name:   "NegativeAmount",
			amount: "-300.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name:   "RecipientNotFound",
			amount: "300.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					TransferTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrAccountNotFound.Error())
			},
		},
		{
			name:   "Conflict",
			amount: "300.00",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					TransferTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, domain.ErrTxConflict)
			},
			checkResponse: func(res domain.TransferTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrTxConflict.Error())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			service := New(repo)

			res, err := service.Transfer(context.Background(), testAccount1.ID, testAccount2.ID, tc.amount)

			tc.checkResponse(res, err)
		})
	}
}

func TestHistory(t *testing.T) {
	testAccount := randomAccount(1, "1000.00")

	testTransactions := []domain.Transaction{
		{ID: 2, AccountID: testAccount.ID, Amount: "200.00", Kind: domain.KindDeposit, Description: "Deposit"},
		{ID: 1, AccountID: testAccount.ID, Amount: "1000.00", Kind: domain.KindDeposit, Description: "Initial deposit"},
	}

	testCases := []struct {
		name          string
		buildStubs    func(repo *MockRepo)
		checkResponse func(res []domain.Transaction, err error)
	}{
		{
			name: "OK",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					ListTransactions(gomock.Any(), gomock.Eq(testAccount.ID)).
					Times(1).
					Return(testTransactions, nil)
			},
			checkResponse: func(res []domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, testTransactions, res)
			},
		},
		{
			name: "NotFound",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					ListTransactions(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, domain.ErrAccountNotFound)
			},
			checkResponse: func(res []domain.Transaction, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrAccountNotFound.Error())
			},
		},
		{
			name: "StoreUnavailable",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					ListTransactions(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, errorspkg.ErrStoreUnavailable)
			},
			checkResponse: func(res []domain.Transaction, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, errorspkg.ErrStoreUnavailable.Error())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			service := New(repo)

			res, err := service.History(context.Background(), testAccount.ID)

			tc.checkResponse(res, err)
		})
	}
}
