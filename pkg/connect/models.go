package connect

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date encoded as "2006-01-02".
type Date struct {
	time.Time
}

// DateTime is a timestamp encoded as "2006-01-02 15:04:05". Decoding also
// accepts RFC 3339.
type DateTime struct {
	time.Time
}

const dateLayout = "2006-01-02"

// MarshalJSON encodes the date, or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON decodes a date, accepting a trailing time component.
func (d *Date) UnmarshalJSON(b []byte) error {
	t, err := parseTime(b, dateLayout, QueryLayout, time.RFC3339)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON encodes the timestamp, or null when zero.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(QueryLayout))
}

// UnmarshalJSON decodes a timestamp.
func (d *DateTime) UnmarshalJSON(b []byte) error {
	t, err := parseTime(b, QueryLayout, time.RFC3339, dateLayout)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseTime(b []byte, layouts ...string) (time.Time, error) {
	if string(b) == "null" {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
		if len(s) > len(layout) && layout == dateLayout {
			if t, err := time.Parse(layout, s[:len(layout)]); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// Design intents.
const (
	IntentCustomize = "customize"
)

// Design is a product customization session in the MyPromo editor.
type Design struct {
	ID             int            `json:"id,omitempty"`
	EditorUserHash string         `json:"editor_user_hash"`
	ReturnURL      string         `json:"return_url"`
	CancelURL      string         `json:"cancel_url"`
	SKU            string         `json:"sku"`
	Intent         string         `json:"intent"`
	Options        map[string]any `json:"options,omitempty"`

	EditorStartURL string `json:"editor_start_url,omitempty"`
	Status         string `json:"status,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// Address is a postal and billing identity used on orders.
type Address struct {
	AddressID               *int   `json:"address_id"`
	AddressKey              string `json:"address_key,omitempty"`
	Reference               string `json:"reference,omitempty"`
	Company                 string `json:"company,omitempty"`
	Department              string `json:"department,omitempty"`
	Salutation              string `json:"salutation,omitempty"`
	Gender                  string `json:"gender,omitempty"`
	DateOfBirth             *Date  `json:"date_of_birth,omitempty"`
	Firstname               string `json:"firstname,omitempty"`
	Middlename              string `json:"middlename,omitempty"`
	Lastname                string `json:"lastname,omitempty"`
	Street                  string `json:"street,omitempty"`
	CareOf                  string `json:"careof,omitempty"`
	Zip                     string `json:"zip,omitempty"`
	City                    string `json:"city,omitempty"`
	StateCode               string `json:"state_code,omitempty"`
	District                string `json:"district,omitempty"`
	CountryCode             string `json:"country_code,omitempty"`
	Phone                   string `json:"phone,omitempty"`
	Fax                     string `json:"fax,omitempty"`
	Mobile                  string `json:"mobile,omitempty"`
	Email                   string `json:"email,omitempty"`
	VatID                   string `json:"vat_id,omitempty"`
	EoriNumber              string `json:"eori_number,omitempty"`
	AccountHolder           string `json:"account_holder,omitempty"`
	IBAN                    string `json:"iban,omitempty"`
	BicOrSwift              string `json:"bic_or_swift,omitempty"`
	CommercialRegisterEntry string `json:"commercial_register_entry,omitempty"`
}

// Order is a fulfillment order.
type Order struct {
	ID            int         `json:"id,omitempty"`
	Reference     string      `json:"reference"`
	Reference2    string      `json:"reference2,omitempty"`
	Comment       string      `json:"comment,omitempty"`
	Shipper       *Address    `json:"shipper,omitempty"`
	Recipient     *Address    `json:"recipient,omitempty"`
	Export        *Address    `json:"export,omitempty"`
	Invoice       *Address    `json:"invoice,omitempty"`
	FakePreflight bool        `json:"fake_preflight"`
	FakeShipment  bool        `json:"fake_shipment"`
	Items         []OrderItem `json:"items,omitempty"`
	Status        string      `json:"status,omitempty"`
	CreatedAt     string      `json:"created_at,omitempty"`
}

// OrderItem is one line of an Order.
type OrderItem struct {
	ID        int                `json:"id,omitempty"`
	OrderID   int                `json:"order_id,omitempty"`
	Reference string             `json:"reference,omitempty"`
	SKU       string             `json:"sku"`
	Quantity  int                `json:"quantity"`
	Comment   string             `json:"comment,omitempty"`
	Relation  *OrderItemRelation `json:"relation,omitempty"`
}

// OrderItemRelation points at an existing item of the same order.
type OrderItemRelation struct {
	OrderItemID int `json:"order_item_id"`
}

// Callback is a webhook the API calls when a feed job settles.
type Callback struct {
	URL string `json:"url"`
}

// Product types accepted by ProductExportFilterOptions.
const (
	ProductTypeAll      = "all"
	ProductTypePhysical = "physical"
	ProductTypeService  = "service"
)

// ProductExportFilterOptions narrows which products an export contains.
type ProductExportFilterOptions struct {
	CategoryID   *int   `json:"category_id"`
	Currency     string `json:"currency,omitempty"`
	Lang         string `json:"lang,omitempty"`
	ProductTypes string `json:"product_types,omitempty"`
	Search       string `json:"search,omitempty"`
	SKU          string `json:"sku,omitempty"`
	ShippingFrom string `json:"shipping_from,omitempty"`
}

func (f *ProductExportFilterOptions) validate() error {
	switch f.ProductTypes {
	case "", ProductTypeAll, ProductTypePhysical, ProductTypeService:
	default:
		return fmt.Errorf("filters.product_types must be one of all, physical, service, got %q",
			f.ProductTypes)
	}
	if err := checkCode("filters.lang", f.Lang, 2); err != nil {
		return err
	}
	if err := checkCode("filters.currency", f.Currency, 3); err != nil {
		return err
	}
	return checkCode("filters.shipping_from", f.ShippingFrom, 2)
}

// Feed job statuses.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusDone       = "done"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
	JobStatusCanceled   = "canceled"
)

// IsSuccessfulJobStatus reports whether a feed job in status s finished
// its work.
func IsSuccessfulJobStatus(s string) bool {
	switch strings.ToLower(s) {
	case JobStatusDone, JobStatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminalJobStatus reports whether a feed job in status s will not
// change again.
func IsTerminalJobStatus(s string) bool {
	switch strings.ToLower(s) {
	case JobStatusDone, JobStatusCompleted, JobStatusFailed, JobStatusCanceled, "cancelled", "error":
		return true
	default:
		return false
	}
}

// ProductExport is an asynchronous export of the product catalogue.
type ProductExport struct {
	ID          int                         `json:"id,omitempty"`
	TemplateID  *int                        `json:"template_id"`
	TemplateKey string                      `json:"template_key,omitempty"`
	Format      string                      `json:"format"`
	Filters     *ProductExportFilterOptions `json:"filters,omitempty"`
	Callback    *Callback                   `json:"callback,omitempty"`

	Status      string `json:"status,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// ProductImportInput locates the file an import reads.
type ProductImportInput struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

// ProductImport is an asynchronous import of product data.
type ProductImport struct {
	ID          int                 `json:"id,omitempty"`
	TemplateID  *int                `json:"template_id"`
	TemplateKey string              `json:"template_key,omitempty"`
	DryRun      bool                `json:"dry_run"`
	DateExecute *DateTime           `json:"date_execute"`
	Input       *ProductImportInput `json:"input,omitempty"`
	Callback    *Callback           `json:"callback,omitempty"`

	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Product is a catalogue entry.
type Product struct {
	ID           int             `json:"id"`
	SKU          string          `json:"sku"`
	Title        string          `json:"title,omitempty"`
	Description  string          `json:"description,omitempty"`
	Type         string          `json:"type,omitempty"`
	CategoryID   int             `json:"category_id,omitempty"`
	ShippingFrom string          `json:"shipping_from,omitempty"`
	Currency     string          `json:"currency,omitempty"`
	Prices       json.RawMessage `json:"prices,omitempty"`
}

// Seo holds search metadata for a product.
type Seo struct {
	SKU             string `json:"sku"`
	Lang            string `json:"lang,omitempty"`
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	MetaKeywords    string `json:"meta_keywords,omitempty"`
}

// Carrier is a shipping carrier.
type Carrier struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Country is a supported country.
type Country struct {
	ID   int    `json:"id,omitempty"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Locale is a supported locale.
type Locale struct {
	ID   int    `json:"id,omitempty"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// State is a subdivision of a country.
type State struct {
	ID          int    `json:"id,omitempty"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code,omitempty"`
}

// Timezone is a supported IANA timezone.
type Timezone struct {
	ID     int    `json:"id,omitempty"`
	Name   string `json:"name"`
	Offset string `json:"offset,omitempty"`
}

// APIStatus is the health report of the API.
type APIStatus struct {
	Message string `json:"message"`
}

// OK reports whether the API described itself as healthy.
func (s *APIStatus) OK() bool {
	return s != nil && s.Message == "OK"
}
