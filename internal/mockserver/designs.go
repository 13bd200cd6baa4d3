package mockserver

import (
	"crypto/md5" //nolint:gosec // editor hashes are identifiers, not secrets
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

const (
	designStatusCreated   = "created"
	designStatusSubmitted = "submitted"
)

func (s *Server) createEditorUser(c echo.Context) error {
	sum := md5.Sum([]byte(uuid.NewString())) //nolint:gosec // see import
	hash := hex.EncodeToString(sum[:])

	s.mu.Lock()
	s.users[hash] = struct{}{}
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, map[string]string{"editor_user_hash": hash})
}

func (s *Server) createDesign(c echo.Context) error {
	var d connect.Design
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Malformed JSON body."})
	}

	errs := map[string][]string{}
	if d.SKU == "" {
		errs["sku"] = []string{"The sku field is required."}
	}
	if d.EditorUserHash == "" {
		errs["editor_user_hash"] = []string{"The editor user hash field is required."}
	}
	for field, raw := range map[string]string{"return_url": d.ReturnURL, "cancel_url": d.CancelURL} {
		if u, err := url.Parse(raw); raw != "" && (err != nil || u.Host == "") {
			errs[field] = []string{fmt.Sprintf("The %s must be a valid URL.", field)}
		}
	}
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	s.mu.Lock()
	d.ID = s.newID()
	d.Status = designStatusCreated
	d.CreatedAt = time.Now().UTC().Format(connect.QueryLayout)
	d.EditorStartURL = fmt.Sprintf("%s/editor/start/%d?user=%s", baseURL(c), d.ID, d.EditorUserHash)
	stored := d
	s.designs[d.ID] = &stored
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, map[string]any{"data": d})
}

func (s *Server) findDesign(c echo.Context) error {
	d, ok := s.design(c)
	if !ok {
		return notFound(c, "Design")
	}
	return c.JSON(http.StatusOK, map[string]any{"data": d})
}

func (s *Server) submitDesign(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "Design")
	}

	s.mu.Lock()
	d, found := s.designs[id]
	if !found {
		s.mu.Unlock()
		return notFound(c, "Design")
	}
	if d.Status == designStatusSubmitted {
		s.mu.Unlock()
		return conflict(c, "Design has already been submitted.")
	}
	d.Status = designStatusSubmitted
	out := *d
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"data": out})
}

func (s *Server) designPreview(c echo.Context) error {
	if _, ok := s.design(c); !ok {
		return notFound(c, "Design")
	}
	return c.Blob(http.StatusOK, "application/pdf", previewPDF)
}

func (s *Server) design(c echo.Context) (connect.Design, bool) {
	id, ok := pathID(c)
	if !ok {
		return connect.Design{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.designs[id]
	if !ok {
		return connect.Design{}, false
	}
	return *d, true
}
