package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func (c *cli) exportsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "exports",
		Short: "Manage product feed exports",
		Long: "Request product feed exports, follow them until the feed file is\n" +
			"ready, and clean up finished jobs.",
	}

	root.AddCommand(
		c.exportRequestCmd(),
		c.exportGetCmd(),
		c.exportListCmd(),
		c.exportCancelCmd(),
		c.exportDeleteCmd(),
		c.watchCmd(connect.ResourceProductExport, "exports"),
	)
	return root
}

func (c *cli) exportRequestCmd() *cobra.Command {
	var (
		templateID   int
		templateKey  string
		format       string
		categoryID   int
		currency     string
		lang         string
		productTypes string
		search       string
		sku          string
		shippingFrom string
		callbackURL  string
		watch        bool
	)

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request a product feed export",
		Example: `  connectctl exports request --template-key default --format csv --lang de
  connectctl exports request --template-id 3 --format json --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := &connect.ProductExport{
				TemplateID:  optionalInt(cmd, "template-id", templateID),
				TemplateKey: templateKey,
				Format:      format,
			}
			filters := connect.ProductExportFilterOptions{
				CategoryID:   optionalInt(cmd, "category-id", categoryID),
				Currency:     currency,
				Lang:         lang,
				ProductTypes: productTypes,
				Search:       search,
				SKU:          sku,
				ShippingFrom: shippingFrom,
			}
			if filters != (connect.ProductExportFilterOptions{}) {
				e.Filters = &filters
			}
			if callbackURL != "" {
				e.Callback = &connect.Callback{URL: callbackURL}
			}

			return c.run(cmd, func(s *session) error {
				repo := connect.NewProductExportRepository(s.client)
				if err := repo.RequestExport(cmd.Context(), e); err != nil {
					return err
				}
				if err := c.render(cmd, e, func(tw *tabWriter) { printExportDetail(tw, e) }); err != nil {
					return err
				}
				if !watch {
					return nil
				}
				return c.watchJobs(cmd, s, connect.ResourceProductExport, []int{e.ID})
			})
		},
	}
	cmd.Flags().IntVar(&templateID, "template-id", 0, "export template id")
	cmd.Flags().StringVar(&templateKey, "template-key", "", "export template key")
	cmd.Flags().StringVar(&format, "format", "csv", "feed format (csv, xml, json, ...)")
	cmd.Flags().IntVar(&categoryID, "category-id", 0, "only products in this category")
	cmd.Flags().StringVar(&currency, "currency", "", "price currency (EUR, USD, GBP, ...)")
	cmd.Flags().StringVar(&lang, "lang", "", "content language")
	cmd.Flags().StringVar(&productTypes, "product-types", "", "all, physical or service")
	cmd.Flags().StringVar(&search, "search", "", "full text filter")
	cmd.Flags().StringVar(&sku, "sku", "", "only this sku")
	cmd.Flags().StringVar(&shippingFrom, "shipping-from", "", "only products shipped from this country")
	cmd.Flags().StringVar(&callbackURL, "callback-url", "", "URL the API calls when the export settles")
	cmd.Flags().BoolVar(&watch, "watch", false, "wait until the export settles")
	return cmd
}

func (c *cli) exportGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show export details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				e, err := connect.NewProductExportRepository(s.client).Find(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.render(cmd, e, func(tw *tabWriter) { printExportDetail(tw, e) })
			})
		},
	}
}

func (c *cli) exportListCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lo, err := lf.options()
			if err != nil {
				return err
			}
			opts := connect.ProductExportOptions{ListOptions: lo}
			return c.run(cmd, func(s *session) error {
				repo := connect.NewProductExportRepository(s.client)
				if lf.all {
					res, err := connect.NewPaginator(connect.PageProductExports(repo, opts),
						append(lf.paginatorOptions(), connect.WithPaginatorLogger(s.log))...).
						Paginate(cmd.Context())
					if err != nil {
						return err
					}
					return c.render(cmd, res.Items, func(tw *tabWriter) {
						printExportsTable(tw, res.Items)
						resultFooter(tw, res.PagesUsed, res.StoppedAt, res.Total)
					})
				}
				page, err := repo.All(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return c.render(cmd, page, func(tw *tabWriter) {
					printExportsTable(tw, page.Data)
					pageFooter(tw, page.Meta)
				})
			})
		},
	}
	lf.bindAll(cmd)
	return cmd
}

func (c *cli) exportCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				e, err := connect.NewProductExportRepository(s.client).Cancel(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.render(cmd, e, func(tw *tabWriter) { printExportDetail(tw, e) })
			})
		},
	}
}

func (c *cli) exportDeleteCmd() *cobra.Command {
	return deleteCmd(c, "Delete an export", (*connect.ProductExportRepository).Delete, connect.NewProductExportRepository)
}

// deleteCmd builds "delete <id>" for a repository with a Delete method.
func deleteCmd[R any](
	c *cli,
	short string,
	del func(R, context.Context, int) error,
	newRepo func(*connect.Client) R,
) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				if err := del(newRepo(s.client), cmd.Context(), id); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %d\n", id)
				return err
			})
		},
	}
}
