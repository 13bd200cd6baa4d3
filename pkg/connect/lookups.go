package connect

import "context"

// CarrierRepository lists shipping carriers.
type CarrierRepository struct{ c *Client }

// NewCarrierRepository returns a CarrierRepository bound to c.
func NewCarrierRepository(c *Client) *CarrierRepository { return &CarrierRepository{c: c} }

// All lists carriers.
func (r *CarrierRepository) All(ctx context.Context, opts CarrierOptions) (*Page[Carrier], error) {
	return listPage[Carrier](ctx, r.c, ResourceCarrier, "carriers.all", routeCarriers, opts)
}

// CountryRepository lists countries.
type CountryRepository struct{ c *Client }

// NewCountryRepository returns a CountryRepository bound to c.
func NewCountryRepository(c *Client) *CountryRepository { return &CountryRepository{c: c} }

// All lists countries.
func (r *CountryRepository) All(ctx context.Context, opts CountryOptions) (*Page[Country], error) {
	return listPage[Country](ctx, r.c, ResourceCountry, "countries.all", routeCountries, opts)
}

// LocaleRepository lists locales.
type LocaleRepository struct{ c *Client }

// NewLocaleRepository returns a LocaleRepository bound to c.
func NewLocaleRepository(c *Client) *LocaleRepository { return &LocaleRepository{c: c} }

// All lists locales.
func (r *LocaleRepository) All(ctx context.Context, opts LocaleOptions) (*Page[Locale], error) {
	return listPage[Locale](ctx, r.c, ResourceLocale, "locales.all", routeLocales, opts)
}

// StateRepository lists country subdivisions.
type StateRepository struct{ c *Client }

// NewStateRepository returns a StateRepository bound to c.
func NewStateRepository(c *Client) *StateRepository { return &StateRepository{c: c} }

// All lists states.
func (r *StateRepository) All(ctx context.Context, opts StateOptions) (*Page[State], error) {
	return listPage[State](ctx, r.c, ResourceState, "states.all", routeStates, opts)
}

// TimezoneRepository lists timezones.
type TimezoneRepository struct{ c *Client }

// NewTimezoneRepository returns a TimezoneRepository bound to c.
func NewTimezoneRepository(c *Client) *TimezoneRepository { return &TimezoneRepository{c: c} }

// All lists timezones.
func (r *TimezoneRepository) All(ctx context.Context, opts TimezoneOptions) (*Page[Timezone], error) {
	return listPage[Timezone](ctx, r.c, ResourceTimezone, "timezones.all", routeTimezones, opts)
}
