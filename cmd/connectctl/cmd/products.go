package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func (c *cli) productsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "products",
		Short: "Browse the product catalog",
	}
	root.AddCommand(c.productListCmd(), c.productSeoCmd())
	return root
}

func (c *cli) productListCmd() *cobra.Command {
	var (
		lf           listFlags
		sku          string
		lang         string
		currency     string
		shippingFrom string
		categoryID   int
		search       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Example: `  connectctl products list --shipping-from DE --per-page 50
  connectctl products list --search mug --currency EUR --all --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lo, err := lf.options()
			if err != nil {
				return err
			}
			opts := connect.ProductOptions{
				ListOptions:  lo,
				SKU:          sku,
				Lang:         lang,
				Currency:     currency,
				ShippingFrom: shippingFrom,
				CategoryID:   categoryID,
				Search:       search,
			}
			return c.run(cmd, func(s *session) error {
				repo := connect.NewProductRepository(s.client)
				if lf.all {
					res, err := connect.NewPaginator(connect.PageProducts(repo, opts),
						append(lf.paginatorOptions(), connect.WithPaginatorLogger(s.log))...).
						Paginate(cmd.Context())
					if err != nil {
						return err
					}
					return c.render(cmd, res.Items, func(tw *tabWriter) {
						printProductsTable(tw, res.Items)
						resultFooter(tw, res.PagesUsed, res.StoppedAt, res.Total)
					})
				}
				page, err := repo.All(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return c.render(cmd, page, func(tw *tabWriter) {
					printProductsTable(tw, page.Data)
					pageFooter(tw, page.Meta)
				})
			})
		},
	}
	lf.bindAll(cmd)
	cmd.Flags().StringVar(&sku, "sku", "", "only this sku")
	cmd.Flags().StringVar(&lang, "lang", "", "content language")
	cmd.Flags().StringVar(&currency, "currency", "", "price currency (EUR, USD, GBP, ...)")
	cmd.Flags().StringVar(&shippingFrom, "shipping-from", "", "only products shipped from this country")
	cmd.Flags().IntVar(&categoryID, "category-id", 0, "only products in this category")
	cmd.Flags().StringVar(&search, "search", "", "full text filter")
	return cmd
}

func (c *cli) productSeoCmd() *cobra.Command {
	var (
		lf  listFlags
		sku string
	)

	cmd := &cobra.Command{
		Use:     "seo",
		Short:   "Show SEO metadata for products",
		Example: `  connectctl products seo --sku MP-F10005-C0000001`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lo, err := lf.options()
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				page, err := connect.NewProductRepository(s.client).
					GetSeo(cmd.Context(), connect.SeoOptions{ListOptions: lo, SKU: sku})
				if err != nil {
					return err
				}
				return c.render(cmd, page, func(tw *tabWriter) {
					printSeoTable(tw, page.Data)
					pageFooter(tw, page.Meta)
				})
			})
		},
	}
	lf.bind(cmd)
	cmd.Flags().StringVar(&sku, "sku", "", "only this sku")
	return cmd
}
