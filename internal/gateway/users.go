package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"smartmedishop-storefront/internal/model"
)

// UserGateway administers the user directory.
type UserGateway struct {
	client *Client
	tokens TokenSource
}

// NewUserGateway binds the user endpoints to a session's credential.
func NewUserGateway(client *Client, tokens TokenSource) *UserGateway {
	return &UserGateway{client: client, tokens: tokens}
}

func userQuery(q model.UserQuery) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortDir != "" {
		v.Set("sortDir", q.SortDir)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v.Encode()
}

// List fetches one page of users.
func (g *UserGateway) List(ctx context.Context, q model.UserQuery) (*model.UserPage, error) {
	var page model.UserPage
	if err := g.client.do(ctx, http.MethodGet, "/users?"+userQuery(q), g.tokens.Token(), nil, &page); err != nil {
		return nil, err
	}
	if page.Users == nil {
		page.Users = []model.User{}
	}
	return &page, nil
}

// Get fetches one user.
func (g *UserGateway) Get(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := g.client.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), g.tokens.Token(), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetActive activates or deactivates an account.
func (g *UserGateway) SetActive(ctx context.Context, id int64, active bool) error {
	action := "deactivate"
	if active {
		action = "activate"
	}
	return g.client.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d/%s", id, action), g.tokens.Token(), nil, nil)
}

// Statistics returns the directory counters as the API reports them.
func (g *UserGateway) Statistics(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{}
	if err := g.client.do(ctx, http.MethodGet, "/users/statistics", g.tokens.Token(), nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
