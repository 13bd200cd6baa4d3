package mockserver

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/connect-client/internal/notify"
	"github.com/donaldgifford/connect-client/pkg/connect"
)

var (
	exportFormats = []string{"csv", "xlsx", "json"}
	importFormats = []string{"csv", "xlsx"}
)

// nextJobStatus moves a feed job one step forward each time it is read.
func (s *Server) nextJobStatus(status string) string {
	switch status {
	case connect.JobStatusPending:
		return connect.JobStatusProcessing
	case connect.JobStatusProcessing:
		return s.doneStatus
	default:
		return status
	}
}

func now() string {
	return time.Now().UTC().Format(connect.QueryLayout)
}

func (s *Server) requestExport(c echo.Context) error {
	var e connect.ProductExport
	if err := c.Bind(&e); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Malformed JSON body."})
	}

	errs := map[string][]string{}
	if e.TemplateID == nil && e.TemplateKey == "" {
		errs["template_key"] = []string{"The template key field is required when template id is not present."}
	}
	if !slices.Contains(exportFormats, e.Format) {
		errs["format"] = []string{"The selected format is invalid."}
	}
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	s.mu.Lock()
	e.ID = s.newID()
	e.Status = connect.JobStatusPending
	e.CreatedAt = now()
	e.UpdatedAt = e.CreatedAt
	stored := e
	s.exports[e.ID] = &stored
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, map[string]any{"data": e})
}

func (s *Server) findExport(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "Export")
	}

	s.mu.Lock()
	e, found := s.exports[id]
	if !found {
		s.mu.Unlock()
		return notFound(c, "Export")
	}
	settled := s.advanceExport(c, e)
	out := *e
	s.mu.Unlock()

	if settled && out.Callback != nil {
		s.sendCallback(c.Request().Context(), &notify.JobEvent{
			Resource:    string(connect.ResourceProductExport),
			JobID:       out.ID,
			Status:      out.Status,
			URL:         out.DownloadURL,
			CallbackURL: out.Callback.URL,
			At:          time.Now().UTC(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": out})
}

// advanceExport steps e and publishes its file when it completes. It
// reports whether e reached a terminal status. Callers hold s.mu.
func (s *Server) advanceExport(c echo.Context, e *connect.ProductExport) bool {
	if connect.IsTerminalJobStatus(e.Status) {
		return false
	}
	e.Status = s.nextJobStatus(e.Status)
	e.UpdatedAt = now()
	if !connect.IsSuccessfulJobStatus(e.Status) {
		return false
	}

	key := fmt.Sprintf("export-%d.%s", e.ID, e.Format)
	s.files[key] = []byte("sku,price\nMP-F10001-C0000001,9.99\n")
	e.DownloadURL = baseURL(c) + "/downloads/" + key
	return true
}

func (s *Server) listExports(c echo.Context) error {
	s.mu.Lock()
	out := sortedValues(s.exports)
	s.mu.Unlock()
	return writePage(c, out, resourceEnvelope)
}

func (s *Server) cancelExport(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "Export")
	}

	s.mu.Lock()
	e, found := s.exports[id]
	if !found {
		s.mu.Unlock()
		return notFound(c, "Export")
	}
	if connect.IsTerminalJobStatus(e.Status) {
		s.mu.Unlock()
		return conflict(c, "Export has already finished.")
	}
	e.Status = connect.JobStatusCanceled
	e.UpdatedAt = now()
	out := *e
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"data": out})
}

func (s *Server) deleteExport(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "Export")
	}
	s.mu.Lock()
	_, found := s.exports[id]
	delete(s.exports, id)
	s.mu.Unlock()
	if !found {
		return notFound(c, "Export")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) requestImport(c echo.Context) error {
	var i connect.ProductImport
	if err := c.Bind(&i); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Malformed JSON body."})
	}

	errs := map[string][]string{}
	if i.TemplateID == nil && i.TemplateKey == "" {
		errs["template_key"] = []string{"The template key field is required when template id is not present."}
	}
	if i.Input == nil || i.Input.URL == "" {
		errs["input.url"] = []string{"The input.url field is required."}
	}
	if i.Input != nil && !slices.Contains(importFormats, i.Input.Format) {
		errs["input.format"] = []string{"The selected input.format is invalid."}
	}
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	s.mu.Lock()
	i.ID = s.newID()
	i.Status = connect.JobStatusPending
	i.CreatedAt = now()
	i.UpdatedAt = i.CreatedAt
	stored := i
	s.imports[i.ID] = &stored
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, map[string]any{"data": i})
}

func (s *Server) findImport(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "Import")
	}

	s.mu.Lock()
	i, found := s.imports[id]
	if !found {
		s.mu.Unlock()
		return notFound(c, "Import")
	}
	settled := false
	if !connect.IsTerminalJobStatus(i.Status) {
		i.Status = s.nextJobStatus(i.Status)
		i.UpdatedAt = now()
		settled = connect.IsTerminalJobStatus(i.Status)
	}
	out := *i
	s.mu.Unlock()

	if settled && out.Callback != nil {
		s.sendCallback(c.Request().Context(), &notify.JobEvent{
			Resource:    string(connect.ResourceProductImport),
			JobID:       out.ID,
			Status:      out.Status,
			CallbackURL: out.Callback.URL,
			At:          time.Now().UTC(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": out})
}

func (s *Server) listImports(c echo.Context) error {
	s.mu.Lock()
	out := sortedValues(s.imports)
	s.mu.Unlock()
	return writePage(c, out, resourceEnvelope)
}

func (s *Server) validateImport(c echo.Context) error {
	return s.updateImport(c, func(i *connect.ProductImport) string {
		if connect.IsTerminalJobStatus(i.Status) {
			return "Import has already finished."
		}
		return ""
	})
}

func (s *Server) confirmImport(c echo.Context) error {
	return s.updateImport(c, func(i *connect.ProductImport) string {
		if connect.IsTerminalJobStatus(i.Status) {
			return "Import has already finished."
		}
		i.DryRun = false
		return ""
	})
}

func (s *Server) cancelImport(c echo.Context) error {
	return s.updateImport(c, func(i *connect.ProductImport) string {
		if connect.IsTerminalJobStatus(i.Status) {
			return "Import has already finished."
		}
		i.Status = connect.JobStatusCanceled
		return ""
	})
}

// updateImport applies fn to the import named in the path. A non-empty
// return from fn rejects the request with that message.
func (s *Server) updateImport(c echo.Context, fn func(*connect.ProductImport) string) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "Import")
	}

	s.mu.Lock()
	i, found := s.imports[id]
	if !found {
		s.mu.Unlock()
		return notFound(c, "Import")
	}
	if msg := fn(i); msg != "" {
		s.mu.Unlock()
		return conflict(c, msg)
	}
	i.UpdatedAt = now()
	out := *i
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"data": out})
}

func (s *Server) deleteImport(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "Import")
	}
	s.mu.Lock()
	_, found := s.imports[id]
	delete(s.imports, id)
	s.mu.Unlock()
	if !found {
		return notFound(c, "Import")
	}
	return c.NoContent(http.StatusNoContent)
}

// sendCallback delivers a job event. Failures are logged; the API call
// that settled the job still succeeds.
func (s *Server) sendCallback(ctx context.Context, event *notify.JobEvent) {
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("job callback failed",
			"resource", event.Resource,
			"id", event.JobID,
			"error", err,
		)
	}
}

func sortedValues[T any](m map[int]*T) []T {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m[id])
	}
	return out
}
