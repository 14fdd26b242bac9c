package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartmedishop-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second}, zap.NewNop())
}

func TestStockGateway_GetProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/stock/products/7", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":7,"sku":"ASP500","name":"Aspirine","quantity":10,"price":15.5,"expirationDate":"2030-01-01"}`)
	})

	p, err := NewStockGateway(client, StaticToken("tok-1")).GetProduct(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "ASP500", p.SKU)
	assert.Equal(t, 10, p.Quantity)
	assert.InDelta(t, 15.5, p.Price, 1e-9)
}

func TestStockGateway_GetProduct_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewStockGateway(client, StaticToken("t")).GetProduct(context.Background(), 3)

	var qErr *StockQueryError
	require.ErrorAs(t, err, &qErr)
	assert.Equal(t, int64(3), qErr.ProductID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStockGateway_ListProducts_BulkError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"database unavailable"}`)
	})

	_, err := NewStockGateway(client, StaticToken("t")).ListProducts(context.Background())

	var qErr *StockQueryError
	require.ErrorAs(t, err, &qErr)
	assert.Zero(t, qErr.ProductID)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "database unavailable", apiErr.Message)
}

func TestStockGateway_RecordMovement(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stock/movements", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var m model.StockMovement
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		assert.Equal(t, model.MovementOut, m.MovementType)
		assert.Equal(t, model.ReasonSale, m.Reason)
		m.ID = 55
		_ = json.NewEncoder(w).Encode(m)
	})

	out, err := NewStockGateway(client, StaticToken("t")).RecordMovement(context.Background(), model.StockMovement{
		ProductID: 9, MovementType: model.MovementOut, Quantity: 2, Reason: model.ReasonSale,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(55), out.ID)
}

func TestStockGateway_RecordMovement_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"product not found"}`)
	})

	_, err := NewStockGateway(client, StaticToken("t")).RecordMovement(context.Background(), model.StockMovement{ProductID: 9})

	var upErr *StockUpdateError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, int64(9), upErr.ProductID)
}

func TestTransactionGateway_Submit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions", r.URL.Path)
		var d model.TransactionDraft
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&d))
		assert.InDelta(t, 45.0, d.Amount, 1e-9)
		_, _ = io.WriteString(w, `{"transactionId":77,"amount":45,"status":"FLAGGED","fraudScore":0.81,"riskLevel":"HIGH","isFraud":true}`)
	})

	res, err := NewTransactionGateway(client, StaticToken("t")).Submit(context.Background(), model.TransactionDraft{Amount: 45})

	require.NoError(t, err)
	assert.Equal(t, int64(77), res.TransactionID)
	assert.True(t, res.IsFraud)
	assert.Equal(t, "HIGH", res.RiskLevel)
}

func TestTransactionGateway_Submit_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Transaction creation failed: amount"}`)
	})

	_, err := NewTransactionGateway(client, StaticToken("t")).Submit(context.Background(), model.TransactionDraft{})

	var subErr *TransactionSubmissionError
	require.ErrorAs(t, err, &subErr)
}

func TestPurchaseGateway_Record(t *testing.T) {
	var got model.PurchaseRecord
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/purchases/record", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `[]`)
	})

	err := NewPurchaseGateway(client, StaticToken("t")).Record(context.Background(), model.PurchaseRecord{
		TransactionID: 77,
		Items:         []model.PurchaseItem{{ProductID: 1, Quantity: 1}},
		Location:      "FR",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(77), got.TransactionID)
	assert.Equal(t, "FR", got.Location)
}

func TestAuthGateway_LoginSendsNoBearer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"token":"abc","username":"alice","userType":"CUSTOMER","userId":4}`)
	})

	res, err := NewAuthGateway(client).Login(context.Background(), model.Credentials{Username: "alice", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "abc", res.Token)
}

func TestAuthGateway_Profile_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := NewAuthGateway(client).Profile(context.Background(), "stale")

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFraudGateway_Alerts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/fraud/alerts", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":1,"transactionId":77,"alertType":"HIGH_AMOUNT","severity":"HIGH","description":"x","status":"OPEN","createdAt":"2026-01-01T10:00:00"}]`)
	})

	alerts, err := NewFraudGateway(client, StaticToken("t")).Alerts(context.Background())

	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, int64(77), alerts[0].TransactionID)
}

type requestIDKey struct{}

func TestClient_ForwardsRequestID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		_, _ = io.WriteString(w, `{"id":1,"name":"Aspirine"}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL: srv.URL + "/api",
		RequestID: func(ctx context.Context) string {
			id, _ := ctx.Value(requestIDKey{}).(string)
			return id
		},
	}, zap.NewNop())

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-42")
	_, err := NewStockGateway(client, StaticToken("t")).GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "req-42", got)
}

func TestStockGateway_UpdateProductSendsOnlySetFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/stock/products/4", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"quantity":40,"price":3.2}`, string(body))
		_, _ = io.WriteString(w, `{"id":4,"name":"Smecta","quantity":40,"price":3.2}`)
	})

	qty, price := 40, 3.2
	p, err := NewStockGateway(client, StaticToken("t")).UpdateProduct(context.Background(), 4,
		model.ProductUpdate{Quantity: &qty, Price: &price})

	require.NoError(t, err)
	assert.Equal(t, 40, p.Quantity)
}

func TestStockGateway_ProductAlerts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stock/alerts/product/4", r.URL.Path)
		_, _ = io.WriteString(w, `null`)
	})

	alerts, err := NewStockGateway(client, StaticToken("t")).ProductAlerts(context.Background(), 4)

	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestFraudGateway_Resolve(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/fraud/alerts/9/resolve", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "carte volée confirmée", body["investigationNotes"])
		_, _ = io.WriteString(w, `{"id":9,"status":"RESOLVED","resolvedBy":"fiona","resolvedAt":"2026-03-10T12:00:00"}`)
	})

	res, err := NewFraudGateway(client, StaticToken("t")).Resolve(context.Background(), 9, "carte volée confirmée")

	require.NoError(t, err)
	assert.Equal(t, "RESOLVED", res.Status)
	assert.Equal(t, "fiona", res.ResolvedBy)
}

func TestUserGateway_ListEncodesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "20", q.Get("size"))
		assert.Equal(t, "dupont", q.Get("search"))
		assert.Empty(t, q.Get("sortBy"))
		_, _ = io.WriteString(w, `{"users":[{"id":5,"username":"jdupont","isActive":false}],"currentPage":2,"totalItems":41,"totalPages":3,"size":20}`)
	})

	page, err := NewUserGateway(client, StaticToken("t")).List(context.Background(),
		model.UserQuery{Page: 2, Size: 20, Search: "dupont"})

	require.NoError(t, err)
	assert.EqualValues(t, 41, page.TotalItems)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "jdupont", page.Users[0].Username)
}

func TestUserGateway_SetActive(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		paths = append(paths, r.URL.Path)
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})
	users := NewUserGateway(client, StaticToken("t"))

	require.NoError(t, users.SetActive(context.Background(), 5, true))
	require.NoError(t, users.SetActive(context.Background(), 5, false))
	assert.Equal(t, []string{"/api/users/5/activate", "/api/users/5/deactivate"}, paths)
}
