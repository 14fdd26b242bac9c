package cart

import (
	"testing"
	"time"

	"smartmedishop-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func product(id int64, stock int, price float64) model.Product {
	return model.Product{
		ID:             id,
		SKU:            "SKU",
		Name:           "Produit",
		Quantity:       stock,
		Price:          price,
		ExpirationDate: "2027-01-01",
	}
}

func TestLines_Add_FailsOnlyWhenStockExceeded(t *testing.T) {
	p := product(1, 5, 2.5)
	cases := []struct {
		existing, add int
		wantErr       bool
	}{
		{0, 1, false},
		{0, 5, false},
		{0, 6, true},
		{2, 3, false},
		{2, 4, true},
		{5, 1, true},
	}

	for _, tc := range cases {
		var lines Lines
		if tc.existing > 0 {
			var err error
			lines, err = lines.Add(p, tc.existing, today)
			require.NoError(t, err)
		}

		next, err := lines.Add(p, tc.add, today)
		if tc.wantErr {
			var stockErr *InsufficientStockError
			require.ErrorAs(t, err, &stockErr, "existing=%d add=%d", tc.existing, tc.add)
			assert.Equal(t, 5, stockErr.Available)
			assert.Equal(t, lines, next, "failed add must not change the cart")
			continue
		}
		require.NoError(t, err, "existing=%d add=%d", tc.existing, tc.add)
		require.Len(t, next, 1)
		assert.Equal(t, tc.existing+tc.add, next[0].Quantity)
	}
}

func TestLines_Add_DoesNotMutateReceiver(t *testing.T) {
	p := product(1, 10, 1)
	first, err := Lines(nil).Add(p, 2, today)
	require.NoError(t, err)

	second, err := first.Add(p, 3, today)
	require.NoError(t, err)

	assert.Equal(t, 2, first[0].Quantity)
	assert.Equal(t, 5, second[0].Quantity)
}

func TestLines_Add_RejectsExpiredProduct(t *testing.T) {
	p := product(1, 10, 1)
	p.ExpirationDate = "2026-03-01"

	_, err := Lines(nil).Add(p, 1, today)

	var expired *ExpiredProductError
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, int64(1), expired.ProductID)
}

func TestLines_UpdateToZeroEqualsRemove(t *testing.T) {
	lines, err := Lines(nil).Add(product(1, 10, 3), 2, today)
	require.NoError(t, err)
	lines, err = lines.Add(product(2, 10, 4), 1, today)
	require.NoError(t, err)

	updated, err := lines.Update(1, 0)
	require.NoError(t, err)
	removed := lines.Remove(1)

	assert.Equal(t, removed, updated)
	assert.Equal(t, removed.Total(), updated.Total())
	assert.Equal(t, removed.Count(), updated.Count())
}

func TestLines_Update_RejectsQuantityAboveStock(t *testing.T) {
	lines, err := Lines(nil).Add(product(1, 3, 1), 1, today)
	require.NoError(t, err)

	_, err = lines.Update(1, 4)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Requested)
}

func TestLines_Update_UnknownProductIsNoop(t *testing.T) {
	lines, err := Lines(nil).Add(product(1, 3, 1), 1, today)
	require.NoError(t, err)

	next, err := lines.Update(99, 2)
	require.NoError(t, err)
	assert.Equal(t, lines, next)
}

func TestLines_TotalAndCount(t *testing.T) {
	p := product(1, 10, 15.50)
	p.SKU = "ASP500"
	lines, err := Lines(nil).Add(p, 2, today)
	require.NoError(t, err)

	assert.InDelta(t, 31.00, lines.Total(), 1e-9)
	assert.Equal(t, 2, lines.Count())
}

func TestLines_Refresh(t *testing.T) {
	lines, err := Lines(nil).Add(product(1, 10, 3), 2, today)
	require.NoError(t, err)

	fresh := product(1, 7, 3.5)
	next := lines.Refresh(map[int64]model.Product{1: fresh})

	assert.Equal(t, 7, next[0].Product.Quantity)
	assert.Equal(t, 10, lines[0].Product.Quantity)
	assert.Equal(t, 2, next[0].Quantity)
}
