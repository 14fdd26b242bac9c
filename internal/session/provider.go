// Package session tracks the identity of one storefront session.
//
// The bearer token is persisted through a CredentialStore so that a restarted
// process or a returning browser keeps its login. Role checks here only decide
// what the storefront offers; the API enforces authorization.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"smartmedishop-storefront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned by operations that need a logged-in session.
var ErrNotAuthenticated = errors.New("not authenticated")

// Authenticator is the remote identity API.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error)
	Profile(ctx context.Context, token string) (*model.User, error)
}

// CredentialStore persists the bearer token of one session. Load returns an
// empty string when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Erase(ctx context.Context) error
}

// Provider holds the token and resolved user of a session.
type Provider struct {
	mu     sync.RWMutex
	token  string
	user   *model.User
	auth   Authenticator
	store  CredentialStore
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// New creates a provider and restores any persisted credential. A credential
// that is expired or whose profile cannot be resolved is erased.
func New(ctx context.Context, auth Authenticator, store CredentialStore, logger *zap.Logger, opts ...Option) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{
		auth:   auth,
		store:  store,
		logger: logger.Named("session"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.restore(ctx)
	return p
}

func (p *Provider) restore(ctx context.Context) {
	if p.store == nil {
		return
	}
	token, err := p.store.Load(ctx)
	if err != nil {
		p.logger.Warn("failed to load credential", zap.Error(err))
		return
	}
	if token == "" {
		return
	}
	if p.expired(token) {
		p.logger.Info("persisted credential expired")
		p.erase(ctx)
		return
	}
	user, err := p.auth.Profile(ctx, token)
	if err != nil {
		p.logger.Warn("stale credential discarded", zap.Error(err))
		p.erase(ctx)
		return
	}

	p.mu.Lock()
	p.token = token
	p.user = user
	p.mu.Unlock()
}

// expired reports whether token is a JWT whose exp claim has passed. Opaque
// tokens are left for the API to judge.
func (p *Provider) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.Time.After(p.now())
}

// Login authenticates with credentials. If the profile cannot be resolved
// afterwards the session is logged out again and the error returned.
func (p *Provider) Login(ctx context.Context, username, password string) (*model.User, error) {
	res, err := p.auth.Login(ctx, model.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	return p.establish(ctx, res.Token)
}

// Register creates an account and logs it in.
func (p *Provider) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	res, err := p.auth.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return p.establish(ctx, res.Token)
}

func (p *Provider) establish(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, errors.New("authentication returned no token")
	}
	if p.store != nil {
		if err := p.store.Save(ctx, token); err != nil {
			p.logger.Warn("failed to persist credential", zap.Error(err))
		}
	}
	p.mu.Lock()
	p.token = token
	p.user = nil
	p.mu.Unlock()

	user, err := p.auth.Profile(ctx, token)
	if err != nil {
		p.Logout(ctx)
		return nil, fmt.Errorf("resolve profile: %w", err)
	}

	p.mu.Lock()
	p.user = user
	p.mu.Unlock()
	return user, nil
}

// Logout drops the identity and erases the persisted credential.
func (p *Provider) Logout(ctx context.Context) {
	p.mu.Lock()
	p.token = ""
	p.user = nil
	p.mu.Unlock()
	p.erase(ctx)
}

func (p *Provider) erase(ctx context.Context) {
	if p.store == nil {
		return
	}
	if err := p.store.Erase(ctx); err != nil {
		p.logger.Warn("failed to erase credential", zap.Error(err))
	}
}

// IsAuthenticated reports whether a user has been resolved.
func (p *Provider) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user != nil
}

// HasRole reports whether the current user has role.
func (p *Provider) HasRole(role string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user != nil && p.user.UserType == role
}

// HasAnyRole reports whether the current user has one of roles.
func (p *Provider) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

// Token returns the bearer token, or "" when logged out.
func (p *Provider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

// CurrentUser returns a copy of the resolved user, or nil.
func (p *Provider) CurrentUser() *model.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}
