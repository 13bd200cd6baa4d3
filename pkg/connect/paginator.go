package connect

import (
	"context"
	"fmt"
	"log/slog"
)

const defaultMaxPages = 50

// Stop reasons reported in PaginateResult.StoppedAt.
const (
	StopLastPage      = "last_page"
	StopNoMoreResults = "no_more_results"
	StopMaxPages      = "max_pages"
)

// PageFunc fetches one page (1-based) of a list endpoint.
type PageFunc[T any] func(ctx context.Context, page int) (*Page[T], error)

type paginatorSettings struct {
	maxPages int
	logger   *slog.Logger
}

// PaginatorOption configures a Paginator.
type PaginatorOption func(*paginatorSettings)

// WithMaxPages caps how many pages are fetched. n <= 0 keeps the default.
func WithMaxPages(n int) PaginatorOption {
	return func(s *paginatorSettings) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithPaginatorLogger sets the logger.
func WithPaginatorLogger(l *slog.Logger) PaginatorOption {
	return func(s *paginatorSettings) {
		s.logger = l
	}
}

// Paginator walks a list endpoint page by page.
type Paginator[T any] struct {
	fetch    PageFunc[T]
	maxPages int
	logger   *slog.Logger
}

// NewPaginator creates a Paginator over fetch.
func NewPaginator[T any](fetch PageFunc[T], opts ...PaginatorOption) *Paginator[T] {
	s := &paginatorSettings{
		maxPages: defaultMaxPages,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return &Paginator[T]{fetch: fetch, maxPages: s.maxPages, logger: s.logger}
}

// PaginateResult holds every item collected by Paginate.
type PaginateResult[T any] struct {
	Items     []T
	Total     int
	PagesUsed int
	StoppedAt string
}

// Paginate fetches pages starting at 1, stopping when:
// - the page reports itself as the last page
// - a page comes back empty
// - the max page cap is reached
func (p *Paginator[T]) Paginate(ctx context.Context) (*PaginateResult[T], error) {
	result := &PaginateResult[T]{}

	for page := 1; page <= p.maxPages; page++ {
		resp, err := p.fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}
		result.PagesUsed++

		if len(resp.Data) == 0 {
			result.StoppedAt = StopNoMoreResults
			return result, nil
		}
		result.Items = append(result.Items, resp.Data...)
		result.Total = resp.Meta.Total

		p.logger.DebugContext(ctx, "fetched page",
			"page", page,
			"items", len(resp.Data),
			"last_page", resp.Meta.LastPage,
		)

		if !resp.HasMore() {
			result.StoppedAt = StopLastPage
			return result, nil
		}
	}

	result.StoppedAt = StopMaxPages
	return result, nil
}

// PageProducts adapts ProductRepository.All to a PageFunc, keeping every
// option except the page number.
func PageProducts(r *ProductRepository, opts ProductOptions) PageFunc[Product] {
	return func(ctx context.Context, page int) (*Page[Product], error) {
		opts.Page = page
		return r.All(ctx, opts)
	}
}

// PageOrders adapts OrderRepository.All to a PageFunc.
func PageOrders(r *OrderRepository, opts OrderOptions) PageFunc[Order] {
	return func(ctx context.Context, page int) (*Page[Order], error) {
		opts.Page = page
		return r.All(ctx, opts)
	}
}

// PageProductExports adapts ProductExportRepository.All to a PageFunc.
func PageProductExports(r *ProductExportRepository, opts ProductExportOptions) PageFunc[ProductExport] {
	return func(ctx context.Context, page int) (*Page[ProductExport], error) {
		opts.Page = page
		return r.All(ctx, opts)
	}
}

// PageProductImports adapts ProductImportRepository.All to a PageFunc.
func PageProductImports(r *ProductImportRepository, opts ProductImportOptions) PageFunc[ProductImport] {
	return func(ctx context.Context, page int) (*Page[ProductImport], error) {
		opts.Page = page
		return r.All(ctx, opts)
	}
}
