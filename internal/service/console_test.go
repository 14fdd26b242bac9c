package service

import (
	"context"
	"testing"

	"smartmedishop-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorefront_RestockInvalidatesCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "sid-1")

	_, err := f.store.Catalog(ctx, "sid-1")
	require.NoError(t, err)

	m, err := f.store.Restock(ctx, "sid-1", 2, 10, "")
	require.NoError(t, err)
	assert.Equal(t, model.MovementIn, m.MovementType)
	assert.Equal(t, model.ReasonRestock, m.Reason)
	assert.Equal(t, 15, f.api.Product(2).Quantity)

	products, err := f.store.Catalog(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, 2, f.api.ListCalls())
	for _, p := range products {
		if p.ID == 2 {
			assert.Equal(t, 15, p.Quantity)
		}
	}
}

func TestStorefront_RestockRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	f.login(t, "sid-1")

	_, err := f.store.Restock(context.Background(), "sid-1", 2, 0, "inventaire")

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, f.api.Movements())
}

func TestStorefront_UpdateProductInvalidatesCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.AddAccount(model.User{ID: 2, Username: "root", UserType: model.RoleAdmin}, "secret", "tok-root")
	_, err := f.store.Login(ctx, "sid-1", model.Credentials{Username: "root", Password: "secret"})
	require.NoError(t, err)

	_, err = f.store.Catalog(ctx, "sid-1")
	require.NoError(t, err)

	price := 3.9
	updated, err := f.store.UpdateProduct(ctx, "sid-1", 1, model.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.InDelta(t, 3.9, updated.Price, 1e-9)

	ok, err := f.cache.Exists(ctx, catalogKey)
	require.NoError(t, err)
	assert.False(t, ok)
}
