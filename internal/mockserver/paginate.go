package mockserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

// envelope selects the list body layout.
type envelope int

const (
	// resourceEnvelope nests page data under "meta".
	resourceEnvelope envelope = iota
	// flatEnvelope puts page data next to "data".
	flatEnvelope
)

// listQuery is the parsed page/per_page/pagination query.
type listQuery struct {
	page       int
	perPage    int
	pagination bool
}

func parseListQuery(c echo.Context) (listQuery, map[string][]string) {
	q := listQuery{page: 1, perPage: defaultPerPage, pagination: true}
	errs := map[string][]string{}

	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs["page"] = []string{"The page must be at least 1."}
		} else {
			q.page = n
		}
	}
	if v := c.QueryParam("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs["per_page"] = []string{"The per page must be at least 1."}
		} else {
			q.perPage = n
		}
	}
	if v := c.QueryParam("pagination"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs["pagination"] = []string{"The pagination field must be true or false."}
		} else {
			q.pagination = b
		}
	}
	return q, errs
}

// writePage slices items by the list query and writes the page. per_page
// is honored even with pagination=false; only the page metadata is left
// out.
func writePage[T any](c echo.Context, items []T, env envelope) error {
	q, errs := parseListQuery(c)
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	total := len(items)
	lastPage := max((total+q.perPage-1)/q.perPage, 1)

	start := min((q.page-1)*q.perPage, total)
	end := min(start+q.perPage, total)
	if !q.pagination {
		start, end = 0, min(q.perPage, total)
	}
	data := items[start:end]
	if data == nil {
		data = []T{}
	}

	if !q.pagination {
		return c.JSON(http.StatusOK, map[string]any{"data": data})
	}

	meta := connect.Meta{
		CurrentPage: q.page,
		PerPage:     q.perPage,
		Total:       total,
		LastPage:    lastPage,
	}
	if env == flatEnvelope {
		return c.JSON(http.StatusOK, map[string]any{
			"data":         data,
			"current_page": meta.CurrentPage,
			"per_page":     meta.PerPage,
			"total":        meta.Total,
			"last_page":    meta.LastPage,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": data, "meta": meta})
}
