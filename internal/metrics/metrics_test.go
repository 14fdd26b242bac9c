package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartmedishop-storefront/internal/checkout"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := New("storefront")

	m.ObserveRequest(http.MethodGet, "/api/v1/cart", 200, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/cart", 200, 10*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/api/v1/checkout", 502, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/cart", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.statusCategories.WithLabelValues("2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusCategories.WithLabelValues("5xx")))
}

func TestCheckoutCollectors(t *testing.T) {
	m := New("storefront")
	hook := m.TransitionHook()

	hook(checkout.StateIdle, checkout.StateValidating)
	hook(checkout.StateValidating, checkout.StateInvalid)
	m.CheckoutFinished(checkout.ResultInvalid, 50*time.Millisecond)
	m.SetActiveShoppers(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("VALIDATING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkouts.WithLabelValues("INVALID")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeShoppers))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("storefront")
	m.CheckoutFinished(checkout.ResultCompleted, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `storefront_checkouts_total{result="COMPLETED",service="storefront"} 1`)
}
