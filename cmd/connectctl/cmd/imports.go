package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func (c *cli) importsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "imports",
		Short: "Manage product feed imports",
		Long: "Request product feed imports from a remote file, validate and confirm\n" +
			"them, and follow them until they settle.",
	}

	root.AddCommand(
		c.importRequestCmd(),
		c.importGetCmd(),
		c.importListCmd(),
		c.importTransitionCmd("validate", "Validate an import", (*connect.ProductImportRepository).Validate),
		c.importTransitionCmd("confirm", "Confirm a validated import", (*connect.ProductImportRepository).Confirm),
		c.importTransitionCmd("cancel", "Cancel a pending import", (*connect.ProductImportRepository).Cancel),
		deleteCmd(c, "Delete an import", (*connect.ProductImportRepository).Delete, connect.NewProductImportRepository),
		c.watchCmd(connect.ResourceProductImport, "imports"),
	)
	return root
}

func (c *cli) importRequestCmd() *cobra.Command {
	var (
		templateID  int
		templateKey string
		inputURL    string
		inputFormat string
		dryRun      bool
		executeAt   string
		callbackURL string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request a product feed import",
		Example: `  connectctl imports request --template-key default --url https://files.example.com/feed.csv --input-format csv --dry-run
  connectctl imports request --template-id 2 --url https://files.example.com/feed.xml --input-format xml --execute-at "2024-07-01 03:00:00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			im := &connect.ProductImport{
				TemplateID:  optionalInt(cmd, "template-id", templateID),
				TemplateKey: templateKey,
				DryRun:      dryRun,
				Input:       &connect.ProductImportInput{URL: inputURL, Format: inputFormat},
			}
			if executeAt != "" {
				t, err := time.ParseInLocation(connect.QueryLayout, executeAt, time.Local)
				if err != nil {
					return fmt.Errorf("parsing --execute-at: %w", err)
				}
				im.DateExecute = &connect.DateTime{Time: t}
			}
			if callbackURL != "" {
				im.Callback = &connect.Callback{URL: callbackURL}
			}

			return c.run(cmd, func(s *session) error {
				if err := connect.NewProductImportRepository(s.client).RequestImport(cmd.Context(), im); err != nil {
					return err
				}
				if err := c.render(cmd, im, func(tw *tabWriter) { printImportDetail(tw, im) }); err != nil {
					return err
				}
				if !watch {
					return nil
				}
				return c.watchJobs(cmd, s, connect.ResourceProductImport, []int{im.ID})
			})
		},
	}
	cmd.Flags().IntVar(&templateID, "template-id", 0, "import template id")
	cmd.Flags().StringVar(&templateKey, "template-key", "", "import template key")
	cmd.Flags().StringVar(&inputURL, "url", "", "absolute URL of the feed file")
	cmd.Flags().StringVar(&inputFormat, "input-format", "csv", "feed file format")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate without changing products")
	cmd.Flags().StringVar(&executeAt, "execute-at", "", `schedule the import ("YYYY-MM-DD HH:MM:SS", local time)`)
	cmd.Flags().StringVar(&callbackURL, "callback-url", "", "URL the API calls when the import settles")
	cmd.Flags().BoolVar(&watch, "watch", false, "wait until the import settles")
	return cmd
}

func (c *cli) importGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show import details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				im, err := connect.NewProductImportRepository(s.client).Find(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.render(cmd, im, func(tw *tabWriter) { printImportDetail(tw, im) })
			})
		},
	}
}

func (c *cli) importListCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lo, err := lf.options()
			if err != nil {
				return err
			}
			opts := connect.ProductImportOptions{ListOptions: lo}
			return c.run(cmd, func(s *session) error {
				repo := connect.NewProductImportRepository(s.client)
				if lf.all {
					res, err := connect.NewPaginator(connect.PageProductImports(repo, opts),
						append(lf.paginatorOptions(), connect.WithPaginatorLogger(s.log))...).
						Paginate(cmd.Context())
					if err != nil {
						return err
					}
					return c.render(cmd, res.Items, func(tw *tabWriter) {
						printImportsTable(tw, res.Items)
						resultFooter(tw, res.PagesUsed, res.StoppedAt, res.Total)
					})
				}
				page, err := repo.All(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return c.render(cmd, page, func(tw *tabWriter) {
					printImportsTable(tw, page.Data)
					pageFooter(tw, page.Meta)
				})
			})
		},
	}
	lf.bindAll(cmd)
	return cmd
}

func (c *cli) importTransitionCmd(
	use, short string,
	action func(*connect.ProductImportRepository, context.Context, int) (*connect.ProductImport, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				im, err := action(connect.NewProductImportRepository(s.client), cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.render(cmd, im, func(tw *tabWriter) { printImportDetail(tw, im) })
			})
		},
	}
}
