package connect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ProductExportRepository manages asynchronous product exports.
type ProductExportRepository struct {
	c *Client
}

// NewProductExportRepository returns a ProductExportRepository bound to c.
func NewProductExportRepository(c *Client) *ProductExportRepository {
	return &ProductExportRepository{c: c}
}

// RequestExport queues e and fills in its ID and status. Either a template
// id or a template key is required.
func (r *ProductExportRepository) RequestExport(ctx context.Context, e *ProductExport) error {
	const op = "product_exports.request"

	if e == nil {
		return observe(invalidArgumentf(ResourceProductExport, op, "export is nil"))
	}
	if e.ID != 0 {
		return observe(invalidArgumentf(ResourceProductExport, op, "export already has id %d", e.ID))
	}
	if err := validateTemplate(e.TemplateID, e.TemplateKey); err != nil {
		return observe(invalidArgument(ResourceProductExport, op, err))
	}
	if e.Format == "" {
		return observe(invalidArgumentf(ResourceProductExport, op, "format is required"))
	}
	if e.Filters != nil {
		if err := e.Filters.validate(); err != nil {
			return observe(invalidArgument(ResourceProductExport, op, err))
		}
	}
	if err := validateCallback(e.Callback); err != nil {
		return observe(invalidArgument(ResourceProductExport, op, err))
	}

	created, err := sendOne[ProductExport](ctx, r.c, ResourceProductExport, op,
		http.MethodPost, routeProductExports, e)
	if err != nil {
		return err
	}
	if created.ID == 0 {
		return observe(malformedResponse(ResourceProductExport, op, http.StatusOK, errMissingField("id")))
	}

	e.ID = created.ID
	e.Status = created.Status
	e.DownloadURL = created.DownloadURL
	e.CreatedAt = created.CreatedAt
	e.UpdatedAt = created.UpdatedAt
	return nil
}

// Find fetches an export by id.
func (r *ProductExportRepository) Find(ctx context.Context, id int) (*ProductExport, error) {
	const op = "product_exports.find"
	if err := checkID(ResourceProductExport, op, id); err != nil {
		return nil, err
	}
	return getOne[ProductExport](ctx, r.c, ResourceProductExport, op, member(routeProductExports, id))
}

// All lists exports.
func (r *ProductExportRepository) All(
	ctx context.Context,
	opts ProductExportOptions,
) (*Page[ProductExport], error) {
	return listPage[ProductExport](ctx, r.c, ResourceProductExport, "product_exports.all",
		routeProductExports, opts)
}

// Cancel stops a pending export.
func (r *ProductExportRepository) Cancel(ctx context.Context, id int) (*ProductExport, error) {
	const op = "product_exports.cancel"
	if err := checkID(ResourceProductExport, op, id); err != nil {
		return nil, err
	}
	return sendOne[ProductExport](ctx, r.c, ResourceProductExport, op, http.MethodPatch,
		member(routeProductExports, id, "cancel"), nil)
}

// Delete removes an export.
func (r *ProductExportRepository) Delete(ctx context.Context, id int) error {
	const op = "product_exports.delete"
	if err := checkID(ResourceProductExport, op, id); err != nil {
		return err
	}
	_, err := r.c.call(ctx, ResourceProductExport, op, http.MethodDelete,
		member(routeProductExports, id), nil, nil, nil)
	return err
}

// ProductImportRepository manages asynchronous product imports.
type ProductImportRepository struct {
	c *Client
}

// NewProductImportRepository returns a ProductImportRepository bound to c.
func NewProductImportRepository(c *Client) *ProductImportRepository {
	return &ProductImportRepository{c: c}
}

// RequestImport queues i and fills in its ID and status.
func (r *ProductImportRepository) RequestImport(ctx context.Context, i *ProductImport) error {
	const op = "product_imports.request"

	if i == nil {
		return observe(invalidArgumentf(ResourceProductImport, op, "import is nil"))
	}
	if i.ID != 0 {
		return observe(invalidArgumentf(ResourceProductImport, op, "import already has id %d", i.ID))
	}
	if err := validateTemplate(i.TemplateID, i.TemplateKey); err != nil {
		return observe(invalidArgument(ResourceProductImport, op, err))
	}
	if i.Input == nil || i.Input.URL == "" || i.Input.Format == "" {
		return observe(invalidArgumentf(ResourceProductImport, op, "input url and format are required"))
	}
	if err := validateAbsoluteURL("input.url", i.Input.URL); err != nil {
		return observe(invalidArgument(ResourceProductImport, op, err))
	}
	if err := validateCallback(i.Callback); err != nil {
		return observe(invalidArgument(ResourceProductImport, op, err))
	}

	created, err := sendOne[ProductImport](ctx, r.c, ResourceProductImport, op,
		http.MethodPost, routeProductImports, i)
	if err != nil {
		return err
	}
	if created.ID == 0 {
		return observe(malformedResponse(ResourceProductImport, op, http.StatusOK, errMissingField("id")))
	}

	i.ID = created.ID
	i.Status = created.Status
	i.CreatedAt = created.CreatedAt
	i.UpdatedAt = created.UpdatedAt
	return nil
}

// Find fetches an import by id.
func (r *ProductImportRepository) Find(ctx context.Context, id int) (*ProductImport, error) {
	const op = "product_imports.find"
	if err := checkID(ResourceProductImport, op, id); err != nil {
		return nil, err
	}
	return getOne[ProductImport](ctx, r.c, ResourceProductImport, op, member(routeProductImports, id))
}

// All lists imports.
func (r *ProductImportRepository) All(
	ctx context.Context,
	opts ProductImportOptions,
) (*Page[ProductImport], error) {
	return listPage[ProductImport](ctx, r.c, ResourceProductImport, "product_imports.all",
		routeProductImports, opts)
}

// Validate asks the API to check the import input without applying it.
func (r *ProductImportRepository) Validate(ctx context.Context, id int) (*ProductImport, error) {
	return r.transition(ctx, "product_imports.validate", id, "validate")
}

// Confirm applies a validated import.
func (r *ProductImportRepository) Confirm(ctx context.Context, id int) (*ProductImport, error) {
	return r.transition(ctx, "product_imports.confirm", id, "confirm")
}

// Cancel stops a pending import.
func (r *ProductImportRepository) Cancel(ctx context.Context, id int) (*ProductImport, error) {
	return r.transition(ctx, "product_imports.cancel", id, "cancel")
}

// Delete removes an import.
func (r *ProductImportRepository) Delete(ctx context.Context, id int) error {
	const op = "product_imports.delete"
	if err := checkID(ResourceProductImport, op, id); err != nil {
		return err
	}
	_, err := r.c.call(ctx, ResourceProductImport, op, http.MethodDelete,
		member(routeProductImports, id), nil, nil, nil)
	return err
}

func (r *ProductImportRepository) transition(
	ctx context.Context,
	op string,
	id int,
	action string,
) (*ProductImport, error) {
	if err := checkID(ResourceProductImport, op, id); err != nil {
		return nil, err
	}
	return sendOne[ProductImport](ctx, r.c, ResourceProductImport, op, http.MethodPatch,
		member(routeProductImports, id, action), nil)
}

func validateTemplate(id *int, key string) error {
	switch {
	case id == nil && key == "":
		return errors.New("template_id or template_key is required")
	case id != nil && *id <= 0:
		return fmt.Errorf("template_id must be positive, got %d", *id)
	}
	return nil
}

func validateCallback(cb *Callback) error {
	if cb == nil {
		return nil
	}
	return validateAbsoluteURL("callback.url", cb.URL)
}

func validateAbsoluteURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" ||
		(!strings.EqualFold(u.Scheme, "http") && !strings.EqualFold(u.Scheme, "https")) {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}
