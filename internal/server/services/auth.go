// Package services contains server-side business logic. This file implements
// AuthService: signup, signin, refresh-token exchange and access-token checks.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/passwords"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/sessions"
)

// TokenConfig is fixed at process start and never re-read per request.
type TokenConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

// NewTokenConfig extracts the token settings from the server config.
func NewTokenConfig(cfg *config.Config) TokenConfig {
	return TokenConfig{
		AccessSecret:  []byte(cfg.AccessSecret),
		AccessTTL:     cfg.AccessTokenValidityDuration,
		RefreshSecret: []byte(cfg.RefreshSecret),
		RefreshTTL:    cfg.RefreshTokenValidityDuration,
	}
}

// dummyPassword is hashed on first need and verified against when signin is
// asked for an unknown email, so that path costs one hash verification too.
const dummyPassword = "gophauth-dummy-password"

// AuthService issues and exchanges tokens for accounts. It holds no mutable
// state beyond the lazily built dummy hash.
type AuthService struct {
	accounts accounts.Repository
	sessions sessions.Repository
	hasher   passwords.Hasher
	signer   auth.Signer
	tokens   TokenConfig
	log      logging.Logger
	now      func() time.Time

	dummyMu   sync.Mutex
	dummyHash string
}

// Option customises an AuthService.
type Option func(*AuthService)

// WithClock makes the service read time from now. The signer must share
// the same clock for expiry decisions to agree.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(l logging.Logger) Option {
	return func(s *AuthService) { s.log = l.With("module", "auth") }
}

// NewAuthService wires the service to the stores vended by m.
func NewAuthService(m repomanager.RepositoryManager, hasher passwords.Hasher, signer auth.Signer, tokens TokenConfig, opts ...Option) *AuthService {
	s := &AuthService{
		accounts: m.Accounts(),
		sessions: m.Sessions(),
		hasher:   hasher,
		signer:   signer,
		tokens:   tokens,
		log:      logging.Nop{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp creates an account and issues its first token pair.
// An email that is already registered yields common.ErrDuplicateCredential.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.TokenPair, error) {
	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	account, err := s.accounts.Create(ctx, &models.Account{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateKey) {
			return nil, common.ErrDuplicateCredential
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.log.Info(ctx, "account created", "account_id", account.ID)
	return s.issuePair(ctx, account)
}

// SignIn checks the password and issues a new token pair, replacing any
// session the account held. Unknown email and wrong password are reported
// identically as common.ErrInvalidCredential.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.TokenPair, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnVerify(ctx, password)
			return nil, common.ErrInvalidCredential
		}
		return nil, fmt.Errorf("error searching account: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, account.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if !ok {
		s.log.Debug(ctx, "signin rejected", "account_id", account.ID)
		return nil, common.ErrInvalidCredential
	}

	return s.issuePair(ctx, account)
}

// Refresh exchanges a stored refresh token. A record past its expiry is
// rotated into a whole new pair; a live one gets a fresh access token only
// and stays as it is.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	rec, err := s.sessions.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	account, err := s.accounts.FindByID(ctx, rec.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("error searching account: %w", err)
	}

	if rec.IsExpiredAt(s.now()) {
		s.log.Info(ctx, "refresh token expired, rotating", "account_id", account.ID)
		return s.issuePair(ctx, account)
	}

	claims, err := s.signer.Verify(refreshToken, s.tokens.RefreshSecret)
	if err != nil || claims.AccountID() != rec.AccountID {
		return nil, common.ErrInvalidOrExpiredToken
	}

	access, err := s.signer.Sign(auth.NewClaims(claims.AccountID(), claims.Email), s.tokens.AccessSecret, s.tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return &models.TokenPair{AccessToken: access}, nil
}

// Authenticate verifies an access token. Any failure is common.ErrUnauthorized.
func (s *AuthService) Authenticate(_ context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.signer.Verify(accessToken, s.tokens.AccessSecret)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) issuePair(ctx context.Context, account *models.Account) (*models.TokenPair, error) {
	claims := auth.NewClaims(account.ID, account.Email)

	// Truncated like the token's own exp claim, so the record never
	// outlives the token it stores.
	expiresAt := s.now().Add(s.tokens.RefreshTTL).Truncate(time.Second)

	access, err := s.signer.Sign(claims, s.tokens.AccessSecret, s.tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	refresh, err := s.signer.Sign(claims, s.tokens.RefreshSecret, s.tokens.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if err := s.sessions.ReplaceActive(ctx, account.ID, refresh, expiresAt); err != nil {
		return nil, fmt.Errorf("error storing session: %w", err)
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) burnVerify(ctx context.Context, password string) {
	if h := s.dummy(ctx); h != "" {
		_, _ = s.hasher.Verify(ctx, h, password)
	}
}

// dummy returns the dummy hash, building it if no earlier call managed to.
// The build ignores the caller's cancellation; a failure is retried next time.
func (s *AuthService) dummy(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash == "" {
		h, err := s.hasher.Hash(context.WithoutCancel(ctx), dummyPassword)
		if err != nil {
			s.log.Warn(ctx, "dummy hash unavailable", logging.ErrorAttrs(err)...)
			return ""
		}
		s.dummyHash = h
	}
	return s.dummyHash
}
