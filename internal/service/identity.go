package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/internal/store"
	"github.com/aussiebroadwan/quizdesk/pkg/cryptox"
	"github.com/aussiebroadwan/quizdesk/pkg/idx"
	"github.com/aussiebroadwan/quizdesk/pkg/slogx"
)

// DefaultTokenTTL is how long a login token lives unless configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// IdentityService owns accounts and the tokens issued for them.
type IdentityService struct {
	Store  store.Store
	Hasher *cryptox.Hasher

	// TokenTTL is the lifetime of issued tokens; zero issues tokens that
	// never expire.
	TokenTTL time.Duration

	Timeout time.Duration
	Now     func() time.Time
}

// Register creates a non-staff account.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (domain.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	switch {
	case in.Username == "" || in.Password == "":
		return domain.Account{}, domain.Validationf("username and password are required")
	case in.Email == "":
		return domain.Account{}, domain.Validationf("email is required")
	case len(in.Username) < minUsernameLength:
		return domain.Account{}, domain.Validationf("username must be at least %d characters", minUsernameLength)
	case len(in.Password) < minPasswordLength:
		return domain.Account{}, domain.Validationf("password must be at least %d characters", minPasswordLength)
	case !emailPattern.MatchString(in.Email):
		return domain.Account{}, domain.Validationf("invalid email format")
	}

	rctx, cancel := store.ReadContext(ctx, s.Timeout)
	taken, err := s.Store.Accounts().Exists(rctx, in.Username, in.Email)
	cancel()
	if err != nil {
		return domain.Account{}, domain.Persistence("check existing account", err)
	}
	if taken {
		return domain.Account{}, domain.Duplicate("username or email already exists")
	}

	hash, err := s.Hasher.Hash(ctx, in.Password)
	if err != nil {
		return domain.Account{}, domain.Persistence("hash password", err)
	}

	now := nowFunc(s.Now)
	account := domain.Account{
		ID:           idx.NewAt(now).String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CreatedAt:    now,
	}

	wctx, cancel := store.WriteContext(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.Accounts().Create(wctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, domain.Duplicate("username or email already exists")
		}
		return domain.Account{}, domain.Persistence("create account", err)
	}

	slogx.FromContext(ctx).InfoContext(ctx, "account registered", "account_id", account.ID, "username", account.Username)
	return account, nil
}

// Login checks credentials against the account matched by username or
// email and mints a new token. Existing tokens are left alone.
func (s *IdentityService) Login(ctx context.Context, login, password string) (domain.IssuedToken, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return domain.IssuedToken{}, domain.Validationf("username and password are required")
	}

	rctx, cancel := store.ReadContext(ctx, s.Timeout)
	account, err := s.Store.Accounts().GetByLogin(rctx, login)
	cancel()
	if errors.Is(err, store.ErrNotFound) {
		return domain.IssuedToken{}, errInvalidCredentials
	}
	if err != nil {
		return domain.IssuedToken{}, domain.Persistence("look up account", err)
	}

	if err := s.Hasher.Verify(ctx, password, account.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			slogx.FromContext(ctx).ErrorContext(ctx, "password verification failed", "account_id", account.ID, "error", err)
		}
		return domain.IssuedToken{}, errInvalidCredentials
	}

	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.IssuedToken{}, domain.Persistence("generate token", err)
	}

	now := nowFunc(s.Now)
	token := domain.Token{
		Fingerprint: cryptox.FingerprintToken(raw),
		AccountID:   account.ID,
		CreatedAt:   now,
	}
	if s.TokenTTL > 0 {
		exp := now.Add(s.TokenTTL)
		token.ExpiresAt = &exp
	}

	wctx, cancel := store.WriteContext(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.Tokens().Create(wctx, token); err != nil {
		return domain.IssuedToken{}, domain.Persistence("issue token", err)
	}

	return domain.IssuedToken{Token: raw, IsStaff: account.IsStaff, ExpiresAt: token.ExpiresAt}, nil
}

// Resolve maps a live token to the identity it was issued for.
func (s *IdentityService) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, errTokenMissing
	}

	rctx, cancel := store.ReadContext(ctx, s.Timeout)
	defer cancel()
	account, err := s.Store.Tokens().Resolve(rctx, cryptox.FingerprintToken(token), nowFunc(s.Now))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, errInvalidToken
	}
	if err != nil {
		return domain.Identity{}, domain.Persistence("resolve token", err)
	}
	return account.Identity(), nil
}

// Validate reports whether token is live without resolving the account.
func (s *IdentityService) Validate(ctx context.Context, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, domain.Validationf("Token missing")
	}

	rctx, cancel := store.ReadContext(ctx, s.Timeout)
	defer cancel()
	ok, err := s.Store.Tokens().Exists(rctx, cryptox.FingerprintToken(token), nowFunc(s.Now))
	if err != nil {
		return false, domain.Persistence("validate token", err)
	}
	return ok, nil
}

// Logout deletes the presented token.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errTokenMissing
	}

	wctx, cancel := store.WriteContext(ctx, s.Timeout)
	defer cancel()
	deleted, err := s.Store.Tokens().Delete(wctx, cryptox.FingerprintToken(token))
	if err != nil {
		return domain.Persistence("revoke token", err)
	}
	if !deleted {
		return errInvalidToken
	}
	return nil
}

// SetStaff flips the staff flag. It is reachable only from the operator CLI.
func (s *IdentityService) SetStaff(ctx context.Context, username string, staff bool) error {
	wctx, cancel := store.WriteContext(ctx, s.Timeout)
	defer cancel()
	err := s.Store.Accounts().SetStaff(wctx, strings.TrimSpace(username), staff)
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound("User not found")
	}
	if err != nil {
		return domain.Persistence("update account", err)
	}
	return nil
}
