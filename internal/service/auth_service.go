package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/storefront/internal/auth"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/rs/zerolog"
)

type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenMaker
	log    zerolog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenMaker, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		log:    log.With().Str("component", "auth").Logger(),
	}
}

type RegisterResult struct {
	Message string
	IsAdmin bool
}

type Session struct {
	Token   string
	Expires time.Time
	User    *domain.User
	Message string
}

// Register creates an account. The very first account becomes admin; no session is issued.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (RegisterResult, error) {
	email = strings.TrimSpace(email)
	if strings.TrimSpace(name) == "" || email == "" || password == "" {
		return RegisterResult{}, domain.Validation("All fields are required.")
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return RegisterResult{}, domain.NewError(domain.ErrConflict, "Email already exist.")
	case !errors.Is(err, repository.ErrUserNotFound):
		return RegisterResult{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return RegisterResult{}, domain.Validation("Password must be at most %d bytes.", auth.MaxPasswordBytes)
		}
		return RegisterResult{}, err
	}

	isAdmin, err := s.claimFirstAdmin(ctx)
	if err != nil {
		return RegisterResult{}, err
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: hash, IsAdmin: isAdmin}
	if err := s.users.Create(ctx, user); err != nil {
		if isAdmin {
			if errRelease := s.users.ReleaseAdminBootstrap(context.WithoutCancel(ctx)); errRelease != nil {
				s.log.Error().Err(errRelease).Msg("failed to release admin bootstrap claim")
			}
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return RegisterResult{}, domain.NewError(domain.ErrConflict, "Email already exist.")
		}
		return RegisterResult{}, err
	}

	msg := "Account Created."
	if isAdmin {
		msg += " You are the first user and have been granted admin privileges."
		s.log.Info().Str("user_id", user.ID.Hex()).Msg("first user granted admin")
	}
	return RegisterResult{Message: msg, IsAdmin: isAdmin}, nil
}

// claimFirstAdmin reports whether this registration is the first one. Only the caller that
// inserts the bootstrap marker wins, so two racing first registrations cannot both be admin.
func (s *AuthService) claimFirstAdmin(ctx context.Context) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return s.users.ClaimAdminBootstrap(ctx)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Validation("All fields are required.")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, translate(err, repository.ErrUserNotFound, msgUserNotFound)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.NewError(domain.ErrBadCredentials, "Wrong email or password.")
		}
		return nil, fmt.Errorf("check password: %w", err)
	}

	token, expires, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	msg := "Login Successfull."
	if user.IsAdmin {
		msg += " Admin access granted."
	}
	return &Session{Token: token, Expires: expires, User: user, Message: msg}, nil
}

// Authenticate resolves a session token to a user id.
func (s *AuthService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", domain.NewError(domain.ErrUnauthenticated, "Token missing.")
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", domain.NewError(domain.ErrUnauthenticated, "Unauthorized.")
	}
	return claims.UserID, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err, repository.ErrUserNotFound, msgUserNotFound)
	}
	return user, nil
}

// RequireAdmin loads the user and fails with a forbidden error unless they are an admin.
func (s *AuthService) RequireAdmin(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, domain.NewError(domain.ErrForbidden, "Access denied. Admin privileges required.")
	}
	return user, nil
}

func (s *AuthService) MakeAdmin(ctx context.Context, email string) (domain.UserSummary, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.UserSummary{}, domain.Validation("Email is required.")
	}

	user, err := s.users.SetAdmin(ctx, email)
	if err != nil {
		return domain.UserSummary{}, translate(err, repository.ErrUserNotFound, msgUserNotFound)
	}
	s.log.Info().Str("email", email).Msg("user granted admin")
	return user.Summary(), nil
}

// EnsureAdmin promotes email when no admin exists yet. Safe to run on every start.
func (s *AuthService) EnsureAdmin(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	exists, err := s.users.AnyAdmin(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := s.users.SetAdmin(ctx, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.Warn().Str("email", email).Msg("admin seed user is not registered yet")
			return nil
		}
		return err
	}
	s.log.Info().Str("email", email).Msg("seeded admin")
	return nil
}
