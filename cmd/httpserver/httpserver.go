// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Roboid537/banking-api/internal/ledgerdelivery"
	"github.com/Roboid537/banking-api/internal/ledgerrepo"
	"github.com/Roboid537/banking-api/internal/ledgerservice"
	"github.com/Roboid537/banking-api/internal/middleware"
	"github.com/Roboid537/banking-api/internal/userdelivery"
	"github.com/Roboid537/banking-api/internal/userrepo"
	"github.com/Roboid537/banking-api/internal/userservice"
	"github.com/Roboid537/banking-api/pkg/configpkg"
	"github.com/Roboid537/banking-api/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	ledgerRepo := ledgerrepo.NewRepoPGS(conn)
	userRepo := userrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	ledgerService := ledgerservice.New(ledgerRepo)
	userService := userservice.New(userRepo, tokenMaker, config.AccessTokenDuration)

	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)
	userHandler := userdelivery.NewHandler(userService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/tokens", userHandler.Login)
	engine.POST("/accounts", ledgerHandler.Open)

	authRoutes := engine.Group("/").Use(middleware.Auth(userService.TokenMaker()))

	authRoutes.GET("/accounts/:id", ledgerHandler.Get)
	authRoutes.POST("/accounts/:id/deposit", ledgerHandler.Deposit)
	authRoutes.POST("/accounts/:id/withdraw", ledgerHandler.Withdraw)
	authRoutes.POST("/accounts/:id/transfer", ledgerHandler.Transfer)
	authRoutes.GET("/accounts/:id/transactions", ledgerHandler.History)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
