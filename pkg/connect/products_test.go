package connect_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func TestProductRepository_All(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	products := connect.NewProductRepository(c)

	tests := []struct {
		name      string
		opts      connect.ProductOptions
		wantLen   int
		wantTotal int
		check     func(t *testing.T, p connect.Product)
	}{
		{
			name:      "default page",
			opts:      connect.ProductOptions{},
			wantLen:   12,
			wantTotal: 12,
		},
		{
			name: "shipping from DE, five per page",
			opts: connect.ProductOptions{
				ListOptions:  connect.ListOptions{PerPage: 5},
				ShippingFrom: "DE",
			},
			wantLen:   5,
			wantTotal: 8,
			check: func(t *testing.T, p connect.Product) {
				t.Helper()
				assert.Equal(t, "DE", p.ShippingFrom)
			},
		},
		{
			name:      "single sku",
			opts:      connect.ProductOptions{SKU: "MP-F10003-C0000003"},
			wantLen:   1,
			wantTotal: 1,
			check: func(t *testing.T, p connect.Product) {
				t.Helper()
				assert.Equal(t, "NL", p.ShippingFrom)
			},
		},
		{
			name:      "search title",
			opts:      connect.ProductOptions{Search: "product 1"},
			wantLen:   4,
			wantTotal: 4,
		},
		{
			name:      "no match",
			opts:      connect.ProductOptions{ShippingFrom: "US"},
			wantLen:   0,
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := products.All(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Len(t, page.Data, tt.wantLen)
			assert.Equal(t, tt.wantTotal, page.Meta.Total)
			for _, p := range page.Data {
				if tt.check != nil {
					tt.check(t, p)
				}
			}
		})
	}
}

func TestProductRepository_All_WithoutPagination(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)

	page, err := connect.NewProductRepository(c).All(context.Background(), connect.ProductOptions{
		ListOptions:  connect.ListOptions{PerPage: 5, Pagination: connect.Bool(false)},
		ShippingFrom: "DE",
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(page.Data), 5)
	assert.Equal(t, connect.Meta{}, page.Meta)
	assert.False(t, page.HasMore())
}

func TestProductRepository_GetSeo(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	products := connect.NewProductRepository(c)

	page, err := products.GetSeo(context.Background(), connect.SeoOptions{SKU: "MP-F10002-C0000002"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "MP-F10002-C0000002", page.Data[0].SKU)
	assert.Equal(t, "Promo product 2", page.Data[0].MetaTitle)

	all, err := products.GetSeo(context.Background(), connect.SeoOptions{})
	require.NoError(t, err)
	assert.Equal(t, 12, all.Meta.Total)
}
