package connect

import (
	"context"
	"strings"
)

// GeneralRepository covers endpoints that belong to no resource family.
type GeneralRepository struct {
	c *Client
}

// NewGeneralRepository returns a GeneralRepository bound to c.
func NewGeneralRepository(c *Client) *GeneralRepository {
	return &GeneralRepository{c: c}
}

// APIStatus reports API health. A message other than "OK" is returned as
// is; check APIStatus.OK.
func (r *GeneralRepository) APIStatus(ctx context.Context) (*APIStatus, error) {
	return getOne[APIStatus](ctx, r.c, ResourceGeneral, "general.status", routeStatus)
}

// DownloadFile fetches a file by identifier, which is either a download
// key or an absolute URL returned by the API (e.g. an export's
// DownloadURL).
func (r *GeneralRepository) DownloadFile(ctx context.Context, identifier string) ([]byte, error) {
	const op = "general.download"
	if strings.TrimSpace(identifier) == "" {
		return nil, observe(invalidArgumentf(ResourceGeneral, op, "file identifier is required"))
	}

	path := downloadPath(identifier)
	if isAbsoluteURL(identifier) {
		path = identifier
	}
	return download(ctx, r.c, ResourceGeneral, op, path, "*/*")
}

// SaveFile downloads a file and writes it to path.
func (r *GeneralRepository) SaveFile(ctx context.Context, identifier, path string) error {
	const op = "general.save_file"
	if path == "" {
		return observe(invalidArgumentf(ResourceGeneral, op, "destination path is required"))
	}
	data, err := r.DownloadFile(ctx, identifier)
	if err != nil {
		return err
	}
	return saveTo(ResourceGeneral, op, path, data)
}

func isAbsoluteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
