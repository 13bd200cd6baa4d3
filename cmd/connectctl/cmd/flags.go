package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

// listFlags are the paging and date-range flags shared by list commands.
type listFlags struct {
	page         int
	perPage      int
	noPagination bool
	all          bool
	maxPages     int
	createdFrom  string
	createdTo    string
}

func (f *listFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 0, "page to fetch (default first page)")
	cmd.Flags().IntVar(&f.perPage, "per-page", 0, "items per page")
	cmd.Flags().BoolVar(&f.noPagination, "no-pagination", false, "ask for a plain list without page metadata")
	cmd.Flags().StringVar(&f.createdFrom, "created-from", "", "only items created at or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.createdTo, "created-to", "", "only items created at or before this date (YYYY-MM-DD)")
}

// bindAll adds --all and --max-pages for endpoints the paginator can walk.
func (f *listFlags) bindAll(cmd *cobra.Command) {
	f.bind(cmd)
	cmd.Flags().BoolVar(&f.all, "all", false, "fetch every page")
	cmd.Flags().IntVar(&f.maxPages, "max-pages", 0, "page cap for --all (default paginator cap)")
}

func (f *listFlags) options() (connect.ListOptions, error) {
	opts := connect.ListOptions{Page: f.page, PerPage: f.perPage}
	if f.noPagination {
		if f.all {
			return opts, fmt.Errorf("--all cannot be combined with --no-pagination")
		}
		opts.Pagination = connect.Bool(false)
	}
	var err error
	if opts.CreatedFrom, err = parseDate("--created-from", f.createdFrom); err != nil {
		return opts, err
	}
	if opts.CreatedTo, err = parseDate("--created-to", f.createdTo); err != nil {
		return opts, err
	}
	return opts, nil
}

func (f *listFlags) paginatorOptions() []connect.PaginatorOption {
	if f.maxPages > 0 {
		return []connect.PaginatorOption{connect.WithMaxPages(f.maxPages)}
	}
	return nil
}

func parseDate(flag, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", flag, err)
	}
	return &t, nil
}

// intArgs parses positional ids.
func intArgs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func intArg(arg string) (int, error) {
	ids, err := intArgs([]string{arg})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// optionalInt returns a pointer to v when the flag was set.
func optionalInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
