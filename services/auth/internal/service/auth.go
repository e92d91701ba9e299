package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/product_catalog/pkg/events"
	pkg_hash "github.com/Skotchmaster/product_catalog/pkg/hash"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
	"github.com/Skotchmaster/product_catalog/pkg/tokens"
	"github.com/Skotchmaster/product_catalog/pkg/validation"
	"github.com/Skotchmaster/product_catalog/services/auth/internal/models"
	"github.com/Skotchmaster/product_catalog/services/auth/internal/repo"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAuth               = errors.New("invalid or expired token")
)

const DefaultTokenTTL = time.Hour

const eventTimeout = 5 * time.Second

var validate = validation.New()

type AuthService struct {
	Repo   repo.Repository
	Secret []byte
	TTL    time.Duration
	Events events.Publisher
	Now    func() time.Time
}

type UserRegistered struct {
	Type      string    `json:"type"`
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	At        time.Time `json:"at"`
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTokenTTL
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkCredentialsInput(email, password string) error {
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return fmt.Errorf("%w: email must be a valid address", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if len(password) > pkg_hash.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, pkg_hash.MaxPasswordBytes)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = NormalizeEmail(email)
	if err := checkCredentialsInput(email, password); err != nil {
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	acc := &models.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: pwHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Repo.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, repo.ErrAccountExists) {
			l.Warn("register_error", "status", 400, "reason", "email already registered")
			return nil, ErrConflict
		}
		l.Error("register_error", "status", 500, "reason", "cannot create account", "error", err)
		return nil, err
	}

	if s.Events != nil {
		ev := UserRegistered{Type: "user_registered", AccountID: acc.ID.String(), Email: acc.Email, At: now}
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventTimeout)
		err := s.Events.Publish(pubCtx, ev.AccountID, ev)
		cancel()
		if err != nil {
			l.Warn("register_event_error", "reason", "cannot publish user_registered", "error", err)
		}
	}

	l.Info("register_success", "account_id", acc.ID.String())
	return acc, nil
}

// ValidateCredentials returns (nil, nil) when the email is unknown or the
// password does not match. Only storage failures are errors.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*models.Account, error) {
	acc, err := s.Repo.AccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrAccountNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(acc.PasswordHash, password) {
		return nil, nil
	}

	acc.PasswordHash = ""
	return acc, nil
}

func (s *AuthService) IssueToken(acc *models.Account) (string, error) {
	return tokens.NewAccessToken(s.Secret, acc.ID.String(), acc.Email, s.now(), s.ttl())
}

func (s *AuthService) VerifyToken(token string) (*tokens.AccessClaims, error) {
	claims, err := tokens.AccessClaimsFromToken(token, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return claims, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	acc, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return "", err
	}
	if acc == nil {
		l.Warn("login_error", "status", 401, "reason", "invalid email or password")
		return "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(acc)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign token", "error", err)
		return "", err
	}

	l.Info("login_success", "account_id", acc.ID.String())
	return token, nil
}
