package gateway

import (
	"context"
	"net/http"

	"smartmedishop-storefront/internal/model"
)

// AuthGateway obtains bearer tokens and resolves identities.
type AuthGateway struct {
	client *Client
}

// NewAuthGateway creates an auth gateway.
func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

// Login exchanges credentials for a token.
func (g *AuthGateway) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var res model.AuthResponse
	if err := g.client.do(ctx, http.MethodPost, "/auth/login", "", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and returns its token.
func (g *AuthGateway) Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error) {
	var res model.AuthResponse
	if err := g.client.do(ctx, http.MethodPost, "/auth/register", "", reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Profile resolves the identity behind token.
func (g *AuthGateway) Profile(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := g.client.do(ctx, http.MethodGet, "/auth/profile", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
