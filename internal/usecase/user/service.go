// Package user implements account registration and login.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"typoteka/internal/domain/entity"
	"typoteka/internal/observability/logging"
	"typoteka/internal/observability/metrics"
	"typoteka/internal/observability/tracing"
	"typoteka/internal/repository"
	"typoteka/internal/service/auth"
	"typoteka/internal/usecase/guard"
)

// Service provides user use cases.
type Service struct {
	Users  repository.UserRepository
	Tokens *auth.Service
	Guard  *guard.Pipeline
}

// Register validates in and stores a new account. The first account ever
// registered becomes an admin, later ones are readers.
func (s *Service) Register(ctx context.Context, in entity.UserInput) (*entity.User, error) {
	ctx, span := tracing.StartSpan(ctx, "user.register")
	user, err := s.register(ctx, in)
	tracing.EndSpan(span, err)
	return user, err
}

func (s *Service) register(ctx context.Context, in entity.UserInput) (*entity.User, error) {
	if err := guard.Check(ctx, "user.register", s.Guard.ValidUser(in)); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	existing, err := s.Users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	role := entity.RoleReader
	if existing == 0 {
		role = entity.RoleAdmin
	}

	user := &entity.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Avatar:       strings.TrimSpace(in.Avatar),
		Role:         role,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordUserRegistered(role)
	logging.FromContext(ctx).Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("role", role))
	return user, nil
}

// Login exchanges credentials for an access token.
func (s *Service) Login(ctx context.Context, creds auth.Credentials) (*auth.AccessToken, error) {
	ctx, span := tracing.StartSpan(ctx, "user.login")
	token, err := s.Tokens.IssueToken(ctx, creds)
	tracing.EndSpan(span, err)

	switch {
	case err == nil:
		metrics.RecordLogin("success")
	case errors.Is(err, entity.ErrUnauthorized):
		metrics.RecordLogin("failure")
		logging.FromContext(ctx).Warn("login rejected")
	default:
		metrics.RecordLogin("error")
	}
	return token, err
}
