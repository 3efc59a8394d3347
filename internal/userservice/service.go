// Package userservice manages business logic layer of users.
package userservice

import (
	"context"
	"time"

	"github.com/Roboid537/banking-api/internal/domain"
	"github.com/Roboid537/banking-api/pkg/errorspkg"
	"github.com/Roboid537/banking-api/pkg/passpkg"
	"github.com/Roboid537/banking-api/pkg/tokenpkg"

	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Get(ctx context.Context, username string) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo                Repo
	tokenMaker          tokenpkg.Maker
	accessTokenDuration time.Duration
}

// New returns user service struct to manage user business logic.
func New(r Repo, tm tokenpkg.Maker, accessTokenDuration time.Duration) *Service {
	return &Service{
		repo:                r,
		tokenMaker:          tm,
		accessTokenDuration: accessTokenDuration,
	}
}

// TokenMaker exposes the configured token maker for route middleware.
func (s *Service) TokenMaker() tokenpkg.Maker {
	return s.tokenMaker
}

// Login verifies the user's password and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *tokenpkg.Payload, error) {
	l := zerolog.Ctx(ctx)

	user, err := s.repo.Get(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		l.Info().Err(err).Send()
		return "", nil, domain.ErrWrongPassword
	}

	token, payload, err := s.tokenMaker.CreateToken(username, s.accessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return "", nil, errorspkg.ErrInternal
	}

	return token, payload, nil
}
