package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartmedishop-storefront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeAuth struct {
	profiles     map[string]*model.User
	loginToken   string
	loginErr     error
	profileCalls int
}

func (f *fakeAuth) Login(_ context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &model.AuthResponse{Token: f.loginToken, Username: creds.Username}, nil
}

func (f *fakeAuth) Register(_ context.Context, reg model.Registration) (*model.AuthResponse, error) {
	return &model.AuthResponse{Token: f.loginToken, Username: reg.Username}, nil
}

func (f *fakeAuth) Profile(_ context.Context, token string) (*model.User, error) {
	f.profileCalls++
	u, ok := f.profiles[token]
	if !ok {
		return nil, errors.New("401")
	}
	return u, nil
}

type memoryStore struct {
	token  string
	erased bool
}

func (s *memoryStore) Load(context.Context) (string, error) { return s.token, nil }

func (s *memoryStore) Save(_ context.Context, token string) error {
	s.token = token
	return nil
}

func (s *memoryStore) Erase(context.Context) error {
	s.token = ""
	s.erased = true
	return nil
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func newProvider(auth *fakeAuth, store *memoryStore) *Provider {
	return New(context.Background(), auth, store, zap.NewNop(), WithClock(func() time.Time { return now }))
}

func TestNew_RestoresValidCredential(t *testing.T) {
	token := signed(t, now.Add(time.Hour))
	auth := &fakeAuth{profiles: map[string]*model.User{token: {ID: 1, Username: "alice", UserType: model.RoleCustomer}}}

	p := newProvider(auth, &memoryStore{token: token})

	assert.True(t, p.IsAuthenticated())
	assert.Equal(t, token, p.Token())
	assert.Equal(t, "alice", p.CurrentUser().Username)
}

func TestNew_ExpiredCredentialErasedWithoutNetwork(t *testing.T) {
	token := signed(t, now.Add(-time.Minute))
	auth := &fakeAuth{profiles: map[string]*model.User{token: {ID: 1}}}
	store := &memoryStore{token: token}

	p := newProvider(auth, store)

	assert.False(t, p.IsAuthenticated())
	assert.Zero(t, auth.profileCalls)
	assert.True(t, store.erased)
	assert.Empty(t, store.token)
}

func TestNew_ProfileFailureLogsOut(t *testing.T) {
	store := &memoryStore{token: "opaque-token"}
	auth := &fakeAuth{profiles: map[string]*model.User{}}

	p := newProvider(auth, store)

	assert.False(t, p.IsAuthenticated())
	assert.Empty(t, p.Token())
	assert.Equal(t, 1, auth.profileCalls)
	assert.True(t, store.erased)
}

func TestLogin_PersistsTokenAndResolvesProfile(t *testing.T) {
	auth := &fakeAuth{
		loginToken: "tok-1",
		profiles:   map[string]*model.User{"tok-1": {ID: 7, Username: "bob", UserType: model.RoleAdmin}},
	}
	store := &memoryStore{}
	p := newProvider(auth, store)

	user, err := p.Login(context.Background(), "bob", "secret")

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "tok-1", store.token)
	assert.True(t, p.HasRole(model.RoleAdmin))
	assert.True(t, p.HasAnyRole(model.RoleFraudAnalyst, model.RoleAdmin))
	assert.False(t, p.HasRole(model.RoleCustomer))
}

func TestLogin_ProfileFailureCleansUp(t *testing.T) {
	auth := &fakeAuth{loginToken: "tok-1", profiles: map[string]*model.User{}}
	store := &memoryStore{}
	p := newProvider(auth, store)

	_, err := p.Login(context.Background(), "bob", "secret")

	require.Error(t, err)
	assert.False(t, p.IsAuthenticated())
	assert.Empty(t, p.Token())
	assert.Empty(t, store.token)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	auth := &fakeAuth{loginErr: errors.New("bad credentials")}
	p := newProvider(auth, &memoryStore{})

	_, err := p.Login(context.Background(), "bob", "wrong")

	assert.EqualError(t, err, "bad credentials")
	assert.False(t, p.IsAuthenticated())
}

func TestRegister_LogsIn(t *testing.T) {
	auth := &fakeAuth{
		loginToken: "tok-2",
		profiles:   map[string]*model.User{"tok-2": {ID: 9, Username: "carol", UserType: model.RoleCustomer}},
	}
	p := newProvider(auth, &memoryStore{})

	user, err := p.Register(context.Background(), model.Registration{Username: "carol", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)
	assert.True(t, p.IsAuthenticated())
}

func TestLogout(t *testing.T) {
	auth := &fakeAuth{
		loginToken: "tok-1",
		profiles:   map[string]*model.User{"tok-1": {ID: 7}},
	}
	store := &memoryStore{}
	p := newProvider(auth, store)
	_, err := p.Login(context.Background(), "bob", "secret")
	require.NoError(t, err)

	p.Logout(context.Background())

	assert.False(t, p.IsAuthenticated())
	assert.Nil(t, p.CurrentUser())
	assert.Empty(t, store.token)
}
