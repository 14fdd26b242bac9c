package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smartmedishop-storefront/internal/checkout"
	"smartmedishop-storefront/internal/gateway"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/internal/notify"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// fakeStore overrides the operations a test needs; the rest panic.
type fakeStore struct {
	Storefront
	products []model.Product
	checkout func(opts checkout.Options) (*checkout.Outcome, error)
	records  []model.CheckoutRecord
	filter   model.CheckoutFilter
	limit    int
	offset   int
	query    model.UserQuery
}

func (f *fakeStore) Catalog(context.Context, string) ([]model.Product, error) {
	return f.products, nil
}

func (f *fakeStore) Checkout(_ context.Context, _ string, opts checkout.Options) (*checkout.Outcome, error) {
	return f.checkout(opts)
}

func (f *fakeStore) Checkouts(_ context.Context, filter model.CheckoutFilter, limit, offset int) ([]model.CheckoutRecord, int64, error) {
	f.filter, f.limit, f.offset = filter, limit, offset
	return f.records, int64(len(f.records)), nil
}

func (f *fakeStore) Users(_ context.Context, _ string, q model.UserQuery) (*model.UserPage, error) {
	f.query = q
	return &model.UserPage{Users: []model.User{{ID: 5, Username: "jdupont"}}, CurrentPage: q.Page, TotalItems: 41, Size: q.Size}, nil
}

type errorBody struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func TestHandler_Ready(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	h := New("storefront", "1.0.0", Dependency{Name: "upstream_api", Pinger: ok}, Dependency{Name: "cache", Pinger: down})
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Data ReadyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Data.Ready)
	require.Len(t, body.Data.Checks, 2)
	assert.Equal(t, "ok", body.Data.Checks[0].Status)
	assert.Equal(t, "failing", body.Data.Checks[1].Status)
	assert.Equal(t, "connection refused", body.Data.Checks[1].Error)
}

func TestCatalogHandler_Filters(t *testing.T) {
	store := &fakeStore{products: []model.Product{
		{ID: 1, Name: "Doliprane 500", Brand: "Sanofi", Type: "MEDICINE", Quantity: 50, LowStockThreshold: 10},
		{ID: 2, Name: "Gel hydroalcoolique", Brand: "Gifrer", Type: "HYGIENE", Quantity: 3, LowStockThreshold: 10},
		{ID: 3, Name: "Efferalgan", Brand: "UPSA", Type: "MEDICINE", Quantity: 8, LowStockThreshold: 10},
	}}
	h := NewCatalogHandler(store)

	list := func(query string) []int64 {
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog?"+query, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data []model.Product `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		ids := make([]int64, 0, len(body.Data))
		for _, p := range body.Data {
			ids = append(ids, p.ID)
		}
		return ids
	}

	assert.Equal(t, []int64{1, 2, 3}, list(""))
	assert.Equal(t, []int64{1, 3}, list("type=medicine"))
	assert.Equal(t, []int64{2, 3}, list("low_stock=true"))
	assert.Equal(t, []int64{1}, list("q=sanofi"))
	assert.Equal(t, []int64{3}, list("q=effer&low_stock=true"))
}

func TestCheckoutHandler_Invalid(t *testing.T) {
	store := &fakeStore{checkout: func(checkout.Options) (*checkout.Outcome, error) {
		return &checkout.Outcome{
			State:      checkout.StateInvalid,
			Validation: &checkout.Validation{Errors: []string{"Le produit Smecta n'existe plus"}},
		}, nil
	}}
	rec := httptest.NewRecorder()
	NewCheckoutHandler(store).Checkout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CART_INVALID", body.Error.Code)
	require.Len(t, body.Error.Details, 1)
	assert.Equal(t, "Le produit Smecta n'existe plus", body.Error.Details[0].Message)
	assert.Contains(t, string(body.Data), `"state":"INVALID"`)
}

func TestCheckoutHandler_StockUpdateFailureCarriesOutcome(t *testing.T) {
	const msg = "Transaction 1001 créée, mais la mise à jour du stock a échoué. Contactez le support."
	store := &fakeStore{checkout: func(checkout.Options) (*checkout.Outcome, error) {
		return &checkout.Outcome{
				State:       checkout.StateUpdatingStock,
				Transaction: &model.TransactionResult{TransactionID: 1001, IsFraud: true, RiskLevel: "HIGH", FraudScore: 0.81},
				Notifications: []notify.Notification{
					notify.Warning("FRAUD DETECTED! Risk Level: HIGH, Score: 0.81"),
					notify.Error(msg),
				},
			}, &gateway.StockUpdateError{TransactionID: 1001, ProductID: 2,
				Err: &gateway.APIError{StatusCode: http.StatusUnauthorized}}
	}}
	rec := httptest.NewRecorder()
	NewCheckoutHandler(store).Checkout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "STOCK_UPDATE_FAILED", body.Error.Code)
	assert.Equal(t, msg, body.Error.Message)

	var out checkout.Outcome
	require.NoError(t, json.Unmarshal(body.Data, &out))
	require.NotNil(t, out.Transaction)
	assert.EqualValues(t, 1001, out.Transaction.TransactionID)
	assert.True(t, out.Transaction.IsFraud)
	require.Len(t, out.Notifications, 2)
	assert.Equal(t, notify.LevelWarning, out.Notifications[0].Level)
	assert.Contains(t, out.Notifications[0].Message, "FRAUD DETECTED")
}

func TestCheckoutHandler_PassesOptions(t *testing.T) {
	var got checkout.Options
	store := &fakeStore{checkout: func(opts checkout.Options) (*checkout.Outcome, error) {
		got = opts
		return &checkout.Outcome{State: checkout.StateDone, HistoryRecorded: true}, nil
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout",
		strings.NewReader(`{"paymentMethod":"PAYPAL","deviceType":"MOBILE","locationCountry":"FR"}`))
	rec := httptest.NewRecorder()
	NewCheckoutHandler(store).Checkout(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, checkout.Options{PaymentMethod: "PAYPAL", DeviceType: "MOBILE", LocationCountry: "FR"}, got)
}

func TestCheckoutHandler_MalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCheckoutHandler(&fakeStore{}).Checkout(rec,
		httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminHandler_ListCheckoutsPaging(t *testing.T) {
	store := &fakeStore{}
	h := NewAdminHandler(store, "sqlite")

	r := chi.NewRouter()
	r.Get("/checkouts", h.ListCheckouts)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/checkouts?state=invalid&user_id=7&limit=1000&offset=20", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.CheckoutFilter{State: "INVALID", UserID: 7}, store.filter)
	assert.Equal(t, maxPageSize, store.limit)
	assert.Equal(t, 20, store.offset)
	assert.JSONEq(t, `{"success":true,"data":[],"meta":{"limit":200,"offset":20,"total":0}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/checkouts?user_id=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_ListQuery(t *testing.T) {
	store := &fakeStore{}
	h := NewUserHandler(store)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/admin/users?page=2&size=500&sort=password&dir=DESC&q=+dupont+", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.UserQuery{Page: 2, Size: maxUserPageSize, SortDir: "desc", Search: "dupont"}, store.query)
	assert.JSONEq(t, `{"success":true,"data":[{"id":5,"username":"jdupont","email":"","userType":"","isActive":false,"isVerified":false}],"meta":{"limit":100,"offset":200,"total":41}}`, rec.Body.String())
}

func TestInventoryHandler_UpdateRejectsBadFields(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/products/{id}", NewInventoryHandler(&fakeStore{}).UpdateProduct)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/products/3",
		strings.NewReader(`{"quantity":-1,"expirationDate":"bientôt"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Len(t, body.Error.Details, 2)
}
