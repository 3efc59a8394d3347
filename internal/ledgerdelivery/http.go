// Package ledgerdelivery manages delivery layer of the ledger.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Roboid537/banking-api/internal/domain"
	"github.com/Roboid537/banking-api/pkg/errorspkg"
	"github.com/Roboid537/banking-api/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Open(ctx context.Context, username, email, password, initialBalance string) (domain.Account, error)
	Deposit(ctx context.Context, accountID int64, amount string) (domain.Account, error)
	Withdraw(ctx context.Context, accountID int64, amount string) (domain.Account, error)
	Transfer(ctx context.Context, fromID, toID int64, amount string) (domain.TransferTxResult, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	History(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func bindError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())

	var (
		ve     validator.ValidationErrors
		errMsg string
	)

	if errors.As(err, &ve) {
		field := ve[0]
		errMsg = field.Field() + web.GetErrorMsg(field)
	} else {
		errMsg = err.Error()
	}

	l.Info().Err(err).Send()
	gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})
}

func respondError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrInvalidAmount,
		domain.ErrInsufficientFunds,
		domain.ErrUsernameAlreadyExists,
		domain.ErrEmailAlreadyExists,
		domain.ErrUserNotFound:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case domain.ErrAccountNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.ErrTxConflict:
		gctx.JSON(http.StatusConflict, web.Error(err))
	case errorspkg.ErrStoreUnavailable:
		gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

type accountData struct {
	Account domain.Account `json:"account"`
}

type accountResponse struct {
	Data accountData `json:"data,omitempty"`
}

type openRequest struct {
	Username       string `json:"username" binding:"required,alphanum"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	InitialBalance string `json:"initial_balance" binding:"required"`
}

// Open handles http request to open an account with its owning user.
func (h *Handler) Open(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req openRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	account, err := h.service.Open(ctx, req.Username, req.Email, req.Password, req.InitialBalance)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, accountResponse{Data: accountData{account}})
}

type uriRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get an account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		bindError(gctx, err)
		return
	}

	account, err := h.service.Get(ctx, req.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, accountResponse{Data: accountData{account}})
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// Deposit handles http request to deposit into an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindError(gctx, err)
		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	account, err := h.service.Deposit(ctx, uri.ID, req.Amount)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, accountResponse{Data: accountData{account}})
}

// Withdraw handles http request to withdraw from an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindError(gctx, err)
		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	account, err := h.service.Withdraw(ctx, uri.ID, req.Amount)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, accountResponse{Data: accountData{account}})
}

type transferRequest struct {
	ToAccountID int64  `json:"to_account" binding:"required,min=1"`
	Amount      string `json:"amount" binding:"required"`
}

type transferData struct {
	Transfer domain.TransferTxResult `json:"transfer"`
}

type transferResponse struct {
	Data transferData `json:"data,omitempty"`
}

// Transfer handles http request to transfer between two accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindError(gctx, err)
		return
	}

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	result, err := h.service.Transfer(ctx, uri.ID, req.ToAccountID, req.Amount)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, transferResponse{Data: transferData{result}})
}

type historyData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type historyResponse struct {
	Data historyData `json:"data,omitempty"`
}

// History handles http request to list an account's transactions newest first.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindError(gctx, err)
		return
	}

	transactions, err := h.service.History(ctx, uri.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, historyResponse{Data: historyData{transactions}})
}
