package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"maildesk/internal/models"
	"maildesk/internal/repository"
)

// ErrEmailTaken is returned by Register when the email already has an account.
var ErrEmailTaken = errors.New("email already registered")

// UserStore is the identity collaborator the façade depends on. Absent users
// are reported with repository.ErrNotFound.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error
}

// LoginRecorder persists successful-login events. Fire-and-forget: a failure
// here never fails the login.
type LoginRecorder interface {
	RecordLogin(ctx context.Context, userID string) error
}

// ResetLinkSender delivers a reset token out of band.
type ResetLinkSender interface {
	SendResetLink(to string, token string) error
}

// Service orchestrates credential verification, session issuance, and
// reset-token redemption. It is the only component the request layer calls.
// It never holds the reset-store lock across collaborator calls or hashing.
type Service struct {
	users    UserStore
	logins   LoginRecorder
	mailer   ResetLinkSender
	hasher   Hasher
	sessions *SessionIssuer
	resets   *ResetStore
	log      *slog.Logger

	// dummyHash is compared against when the user lookup misses, so that
	// unknown-email and wrong-password logins cost comparable time.
	dummyHash string
}

type ServiceDeps struct {
	Users    UserStore
	Logins   LoginRecorder
	Mailer   ResetLinkSender
	Hasher   Hasher
	Sessions *SessionIssuer
	Resets   *ResetStore
	Logger   *slog.Logger
}

func NewService(deps ServiceDeps) (*Service, error) {
	if deps.Users == nil || deps.Sessions == nil || deps.Resets == nil {
		return nil, fmt.Errorf("auth service: missing collaborator")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	dummy, err := deps.Hasher.Hash("maildesk-timing-pad")
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &Service{
		users:     deps.Users,
		logins:    deps.Logins,
		mailer:    deps.Mailer,
		hasher:    deps.Hasher,
		sessions:  deps.Sessions,
		resets:    deps.Resets,
		log:       deps.Logger,
		dummyHash: dummy,
	}, nil
}

// Register creates an account with a freshly hashed credential.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies the credential and mints a session token. Unknown email and
// wrong password are indistinguishable to the caller: both return
// ErrInvalidCredentials, and both run a bcrypt comparison.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		s.log.Error("stored credential malformed", "user_id", u.ID, "error", err)
		return "", ErrInvalidCredentials
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(Identity{UserID: u.ID, Email: u.Email})
	if err != nil {
		return "", err
	}

	if s.logins != nil {
		if err := s.logins.RecordLogin(ctx, u.ID); err != nil {
			s.log.Warn("record login failed", "user_id", u.ID, "error", err)
		}
	}
	return token, nil
}

// ValidateSession verifies a session token and returns the identity it
// carries. Stateless; see SessionIssuer.Validate for the failure modes.
func (s *Service) ValidateSession(token string) (Identity, error) {
	return s.sessions.Validate(token)
}

// RequestReset issues a reset token and hands it to the delivery
// collaborator. When the email has no account the call still succeeds with an
// empty token, so an unauthenticated caller cannot probe for accounts. If
// delivery fails the just-issued token is invalidated before the error is
// returned.
//
// The returned token exists for development flows only; production handlers
// must never expose it.
func (s *Service) RequestReset(ctx context.Context, email string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("password reset requested for unknown email")
			return "", nil
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	token, err := s.resets.Issue(u.ID)
	if err != nil {
		return "", err
	}

	if s.mailer != nil {
		if err := s.mailer.SendResetLink(u.Email, token); err != nil {
			s.resets.Invalidate(token)
			return "", fmt.Errorf("deliver reset link: %w", err)
		}
	}
	s.log.Info("reset token issued", "user_id", u.ID)
	return token, nil
}

// CompleteReset redeems the token, hashes the new credential, and persists
// it. The token is consumed even when the subsequent persist fails; the user
// must request a new one in that case.
func (s *Service) CompleteReset(ctx context.Context, token, newPassword string) error {
	userID, err := s.resets.Redeem(token)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	s.log.Info("password reset completed", "user_id", userID)
	return nil
}

// ChangePassword re-verifies the current credential before storing the new
// one. Requires an authenticated caller.
func (s *Service) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("look up user: %w", err)
	}

	ok, err := s.hasher.Verify(current, u.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	return nil
}
