package connect

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// QueryLayout is the timestamp layout used for created_from/created_to.
const QueryLayout = "2006-01-02 15:04:05"

// QueryOptions is implemented by every list option type.
type QueryOptions interface {
	Query() url.Values
	Validate() error
}

// ListOptions holds the pagination and date-range fields shared by all
// list endpoints. Only fields that are set appear in the query.
type ListOptions struct {
	Page    int
	PerPage int
	// Pagination=false asks the API for a plain list without page metadata.
	Pagination  *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// Time returns a pointer to t.
func Time(t time.Time) *time.Time {
	return &t
}

// Query encodes the options as URL parameters.
func (o ListOptions) Query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Pagination != nil {
		q.Set("pagination", strconv.FormatBool(*o.Pagination))
	}
	if o.CreatedFrom != nil {
		q.Set("created_from", o.CreatedFrom.Format(QueryLayout))
	}
	if o.CreatedTo != nil {
		q.Set("created_to", o.CreatedTo.Format(QueryLayout))
	}
	return q
}

// Validate rejects negative page values and inverted date ranges.
func (o ListOptions) Validate() error {
	var errs []error
	if o.Page < 0 {
		errs = append(errs, fmt.Errorf("page must not be negative, got %d", o.Page))
	}
	if o.PerPage < 0 {
		errs = append(errs, fmt.Errorf("per_page must not be negative, got %d", o.PerPage))
	}
	if o.CreatedFrom != nil && o.CreatedTo != nil && o.CreatedFrom.After(*o.CreatedTo) {
		errs = append(errs, errors.New("created_from must not be after created_to"))
	}
	return errors.Join(errs...)
}

// ProductOptions filters the product catalogue.
type ProductOptions struct {
	ListOptions
	SKU string
	// Lang is an ISO 639-1 language code, e.g. "DE".
	Lang string
	// Currency is an ISO 4217 code, e.g. "EUR".
	Currency string
	// ShippingFrom is an ISO 3166-1 alpha-2 country code.
	ShippingFrom string
	CategoryID   int
	Search       string
}

// Query encodes the options as URL parameters.
func (o ProductOptions) Query() url.Values {
	q := o.ListOptions.Query()
	setNonEmpty(q, "sku", o.SKU)
	setNonEmpty(q, "lang", o.Lang)
	setNonEmpty(q, "currency", o.Currency)
	setNonEmpty(q, "shipping_from", o.ShippingFrom)
	setNonEmpty(q, "search", o.Search)
	if o.CategoryID > 0 {
		q.Set("category_id", strconv.Itoa(o.CategoryID))
	}
	return q
}

// Validate checks the embedded list options and the ISO code lengths.
func (o ProductOptions) Validate() error {
	errs := []error{o.ListOptions.Validate()}
	errs = append(errs,
		checkCode("lang", o.Lang, 2),
		checkCode("currency", o.Currency, 3),
		checkCode("shipping_from", o.ShippingFrom, 2),
	)
	if o.CategoryID < 0 {
		errs = append(errs, fmt.Errorf("category_id must not be negative, got %d", o.CategoryID))
	}
	return errors.Join(errs...)
}

// SeoOptions selects SEO data for products.
type SeoOptions struct {
	ListOptions
	SKU string
}

// Query encodes the options as URL parameters.
func (o SeoOptions) Query() url.Values {
	q := o.ListOptions.Query()
	setNonEmpty(q, "sku", o.SKU)
	return q
}

// OrderOptions lists orders.
type OrderOptions struct {
	ListOptions
	Reference string
	Status    string
}

// Query encodes the options as URL parameters.
func (o OrderOptions) Query() url.Values {
	q := o.ListOptions.Query()
	setNonEmpty(q, "reference", o.Reference)
	setNonEmpty(q, "status", o.Status)
	return q
}

// ProductExportOptions lists product export jobs.
type ProductExportOptions struct {
	ListOptions
}

// ProductImportOptions lists product import jobs.
type ProductImportOptions struct {
	ListOptions
}

// CarrierOptions lists carriers.
type CarrierOptions struct {
	ListOptions
}

// CountryOptions lists countries.
type CountryOptions struct {
	ListOptions
}

// LocaleOptions lists locales.
type LocaleOptions struct {
	ListOptions
}

// TimezoneOptions lists timezones.
type TimezoneOptions struct {
	ListOptions
}

// StateOptions lists states, optionally for one country.
type StateOptions struct {
	ListOptions
	CountryCode string
}

// Query encodes the options as URL parameters.
func (o StateOptions) Query() url.Values {
	q := o.ListOptions.Query()
	setNonEmpty(q, "country_code", o.CountryCode)
	return q
}

// Validate checks the embedded list options and the country code.
func (o StateOptions) Validate() error {
	return errors.Join(o.ListOptions.Validate(), checkCode("country_code", o.CountryCode, 2))
}

func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func checkCode(name, value string, n int) error {
	if value == "" {
		return nil
	}
	if len(value) != n || strings.ContainsFunc(value, func(r rune) bool {
		return (r < 'A' || r > 'Z') && (r < 'a' || r > 'z')
	}) {
		return fmt.Errorf("%s must be a %d-letter code, got %q", name, n, value)
	}
	return nil
}
