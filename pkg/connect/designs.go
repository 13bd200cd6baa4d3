package connect

import (
	"context"
	"net/http"
)

// DesignRepository manages editor designs.
type DesignRepository struct {
	c *Client
}

// NewDesignRepository returns a DesignRepository bound to c.
func NewDesignRepository(c *Client) *DesignRepository {
	return &DesignRepository{c: c}
}

// CreateEditorUserHash registers an anonymous editor user and returns its
// hash, which later designs are created for.
func (r *DesignRepository) CreateEditorUserHash(ctx context.Context) (string, error) {
	const op = "designs.create_editor_user_hash"

	out, err := sendOne[struct {
		EditorUserHash string `json:"editor_user_hash"`
	}](ctx, r.c, ResourceDesign, op, http.MethodPost, routeDesignEditorUser, struct{}{})
	if err != nil {
		return "", err
	}
	if out.EditorUserHash == "" {
		return "", observe(malformedResponse(ResourceDesign, op, http.StatusOK,
			errMissingField("editor_user_hash")))
	}
	return out.EditorUserHash, nil
}

// Create registers d with the API and fills in its ID, status and editor
// start URL. Empty return and cancel URLs default to Config.ShopURL.
func (r *DesignRepository) Create(ctx context.Context, d *Design) error {
	const op = "designs.create"

	if d == nil {
		return observe(invalidArgumentf(ResourceDesign, op, "design is nil"))
	}
	if d.ID != 0 {
		return observe(invalidArgumentf(ResourceDesign, op, "design already has id %d", d.ID))
	}
	if d.SKU == "" {
		return observe(invalidArgumentf(ResourceDesign, op, "sku is required"))
	}
	if d.EditorUserHash == "" {
		return observe(invalidArgumentf(ResourceDesign, op, "editor_user_hash is required"))
	}
	if d.ReturnURL == "" {
		d.ReturnURL = r.c.cfg.ShopURL
	}
	if d.CancelURL == "" {
		d.CancelURL = r.c.cfg.ShopURL
	}

	created, err := sendOne[Design](ctx, r.c, ResourceDesign, op, http.MethodPost, routeDesigns, d)
	if err != nil {
		return err
	}
	if created.ID == 0 {
		return observe(malformedResponse(ResourceDesign, op, http.StatusOK, errMissingField("id")))
	}

	d.ID = created.ID
	d.EditorStartURL = created.EditorStartURL
	d.Status = created.Status
	d.CreatedAt = created.CreatedAt
	return nil
}

// Find fetches a design by id.
func (r *DesignRepository) Find(ctx context.Context, id int) (*Design, error) {
	const op = "designs.find"
	if err := checkID(ResourceDesign, op, id); err != nil {
		return nil, err
	}
	return getOne[Design](ctx, r.c, ResourceDesign, op, member(routeDesigns, id))
}

// Submit finalizes the design so it can be ordered.
func (r *DesignRepository) Submit(ctx context.Context, id int) (*Design, error) {
	const op = "designs.submit"
	if err := checkID(ResourceDesign, op, id); err != nil {
		return nil, err
	}
	return sendOne[Design](ctx, r.c, ResourceDesign, op, http.MethodPatch,
		member(routeDesigns, id, "submit"), nil)
}

// GetPreviewPDF returns the rendered preview of a design as PDF bytes.
func (r *DesignRepository) GetPreviewPDF(ctx context.Context, id int) ([]byte, error) {
	const op = "designs.preview"
	if err := checkID(ResourceDesign, op, id); err != nil {
		return nil, err
	}
	return download(ctx, r.c, ResourceDesign, op, member(routeDesigns, id, "preview"), "application/pdf")
}

// SavePreview writes the preview PDF of a design to path.
func (r *DesignRepository) SavePreview(ctx context.Context, id int, path string) error {
	const op = "designs.save_preview"
	if path == "" {
		return observe(invalidArgumentf(ResourceDesign, op, "destination path is required"))
	}
	data, err := r.GetPreviewPDF(ctx, id)
	if err != nil {
		return err
	}
	return saveTo(ResourceDesign, op, path, data)
}
