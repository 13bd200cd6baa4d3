package connect_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func TestListOptions_Query(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name string
		opts connect.QueryOptions
		want url.Values
	}{
		{
			name: "empty options send nothing",
			opts: connect.ListOptions{},
			want: url.Values{},
		},
		{
			name: "page fields only",
			opts: connect.ListOptions{Page: 2, PerPage: 5, Pagination: connect.Bool(false)},
			want: url.Values{
				"page":       {"2"},
				"per_page":   {"5"},
				"pagination": {"false"},
			},
		},
		{
			name: "date range",
			opts: connect.ListOptions{CreatedFrom: &from, CreatedTo: connect.Time(to)},
			want: url.Values{
				"created_from": {"2024-03-01 08:30:00"},
				"created_to":   {"2024-03-31 23:59:59"},
			},
		},
		{
			name: "product filters",
			opts: connect.ProductOptions{
				ListOptions:  connect.ListOptions{PerPage: 5},
				SKU:          "MP-F10001-C0000001",
				Lang:         "DE",
				Currency:     "EUR",
				ShippingFrom: "DE",
				CategoryID:   3,
				Search:       "mug",
			},
			want: url.Values{
				"per_page":      {"5"},
				"sku":           {"MP-F10001-C0000001"},
				"lang":          {"DE"},
				"currency":      {"EUR"},
				"shipping_from": {"DE"},
				"category_id":   {"3"},
				"search":        {"mug"},
			},
		},
		{
			name: "order filters",
			opts: connect.OrderOptions{Reference: "R-1", Status: "draft"},
			want: url.Values{"reference": {"R-1"}, "status": {"draft"}},
		},
		{
			name: "seo sku",
			opts: connect.SeoOptions{SKU: "MP-1"},
			want: url.Values{"sku": {"MP-1"}},
		},
		{
			name: "state country",
			opts: connect.StateOptions{CountryCode: "AT"},
			want: url.Values{"country_code": {"AT"}},
		},
		{
			name: "lookup embeds list options",
			opts: connect.CarrierOptions{ListOptions: connect.ListOptions{Page: 1}},
			want: url.Values{"page": {"1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.opts.Query())
		})
	}
}

func TestListOptions_Validate(t *testing.T) {
	t.Parallel()

	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	tests := []struct {
		name    string
		opts    connect.QueryOptions
		wantErr string
	}{
		{name: "zero value", opts: connect.ListOptions{}},
		{name: "valid range", opts: connect.ListOptions{CreatedFrom: &early, CreatedTo: &late}},
		{name: "negative page", opts: connect.ListOptions{Page: -1}, wantErr: "page must not be negative"},
		{name: "negative per page", opts: connect.ListOptions{PerPage: -5}, wantErr: "per_page must not be negative"},
		{
			name:    "inverted range",
			opts:    connect.ListOptions{CreatedFrom: &late, CreatedTo: &early},
			wantErr: "created_from must not be after created_to",
		},
		{name: "valid product codes", opts: connect.ProductOptions{Lang: "de", Currency: "EUR", ShippingFrom: "DE"}},
		{name: "bad language", opts: connect.ProductOptions{Lang: "deu"}, wantErr: "lang must be a 2-letter code"},
		{name: "bad currency", opts: connect.ProductOptions{Currency: "E1R"}, wantErr: "currency must be a 3-letter code"},
		{name: "bad origin", opts: connect.ProductOptions{ShippingFrom: "D"}, wantErr: "shipping_from must be a 2-letter code"},
		{name: "negative category", opts: connect.ProductOptions{CategoryID: -2}, wantErr: "category_id must not be negative"},
		{
			name:    "embedded errors surface",
			opts:    connect.ProductOptions{ListOptions: connect.ListOptions{Page: -1}},
			wantErr: "page must not be negative",
		},
		{name: "bad state country", opts: connect.StateOptions{CountryCode: "DEU"}, wantErr: "country_code must be a 2-letter code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestListOptions_InvalidRejectedBeforeRequest(t *testing.T) {
	t.Parallel()

	c, ms := newMockAPI(t, nil)

	_, err := connect.NewProductRepository(c).All(context.Background(), connect.ProductOptions{Currency: "euro"})
	require.ErrorIs(t, err, connect.ErrInvalidArgument)
	assert.Zero(t, ms.TokenExchanges())
}
