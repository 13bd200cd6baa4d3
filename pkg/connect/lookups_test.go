package connect_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func TestLookupRepositories(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	ctx := context.Background()

	carriers, err := connect.NewCarrierRepository(c).All(ctx, connect.CarrierOptions{})
	require.NoError(t, err)
	assert.Len(t, carriers.Data, 7)
	assert.Equal(t, "dhl", carriers.Data[0].Code)

	countries, err := connect.NewCountryRepository(c).All(ctx, connect.CountryOptions{})
	require.NoError(t, err)
	assert.Len(t, countries.Data, 7)

	locales, err := connect.NewLocaleRepository(c).All(ctx, connect.LocaleOptions{})
	require.NoError(t, err)
	assert.Len(t, locales.Data, 6)

	timezones, err := connect.NewTimezoneRepository(c).All(ctx, connect.TimezoneOptions{})
	require.NoError(t, err)
	assert.Len(t, timezones.Data, 6)
	assert.Equal(t, 1, timezones.Meta.CurrentPage)
	assert.Equal(t, 6, timezones.Meta.Total)
}

func TestStateRepository_All(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	states := connect.NewStateRepository(c)

	tests := []struct {
		name    string
		opts    connect.StateOptions
		wantLen int
	}{
		{name: "all states", opts: connect.StateOptions{}, wantLen: 8},
		{name: "germany", opts: connect.StateOptions{CountryCode: "DE"}, wantLen: 6},
		{name: "austria lower case", opts: connect.StateOptions{CountryCode: "at"}, wantLen: 2},
		{
			name:    "second page",
			opts:    connect.StateOptions{ListOptions: connect.ListOptions{Page: 2, PerPage: 5}},
			wantLen: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := states.All(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Len(t, page.Data, tt.wantLen)
		})
	}
}

func TestLookupRepositories_FlatEnvelopePaging(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	carriers := connect.NewCarrierRepository(c)

	page, err := carriers.All(context.Background(), connect.CarrierOptions{
		ListOptions: connect.ListOptions{PerPage: 3},
	})
	require.NoError(t, err)
	assert.Len(t, page.Data, 3)
	assert.Equal(t, connect.Meta{CurrentPage: 1, PerPage: 3, Total: 7, LastPage: 3}, page.Meta)
	assert.True(t, page.HasMore())
}
