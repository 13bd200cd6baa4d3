package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func (c *cli) designsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "designs",
		Short: "Manage designer sessions",
		Long: "Create designs for the MyPromo editor, submit finished designs and\n" +
			"download their PDF previews.",
	}

	root.AddCommand(
		c.designHashCmd(),
		c.designCreateCmd(),
		c.designGetCmd(),
		c.designSubmitCmd(),
		c.designPreviewCmd(),
	)
	return root
}

func (c *cli) designHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Create an editor user hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(s *session) error {
				hash, err := connect.NewDesignRepository(s.client).CreateEditorUserHash(cmd.Context())
				if err != nil {
					return err
				}
				out := map[string]string{"editor_user_hash": hash}
				return c.render(cmd, out, func(tw *tabWriter) {
					tw.writef("%s\n", hash)
				})
			})
		},
	}
}

func (c *cli) designCreateCmd() *cobra.Command {
	var (
		sku       string
		intent    string
		hash      string
		returnURL string
		cancelURL string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a design",
		Long: "Create a design and print the editor start URL. Without --hash a new\n" +
			"editor user hash is created first. Return and cancel URLs default to\n" +
			"the configured shop URL.",
		Example: `  connectctl designs create --sku MP-F10005-C0000001
  connectctl designs create --sku MP-F10005-C0000001 --hash 0123abcd --return-url https://shop.example.com/done`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sku == "" {
				return fmt.Errorf("--sku is required")
			}
			return c.run(cmd, func(s *session) error {
				repo := connect.NewDesignRepository(s.client)
				if hash == "" {
					h, err := repo.CreateEditorUserHash(cmd.Context())
					if err != nil {
						return err
					}
					hash = h
				}
				d := &connect.Design{
					EditorUserHash: hash,
					ReturnURL:      returnURL,
					CancelURL:      cancelURL,
					SKU:            sku,
					Intent:         intent,
				}
				if err := repo.Create(cmd.Context(), d); err != nil {
					return err
				}
				return c.render(cmd, d, func(tw *tabWriter) { printDesignDetail(tw, d) })
			})
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "product sku")
	cmd.Flags().StringVar(&intent, "intent", connect.IntentCustomize, "editor intent")
	cmd.Flags().StringVar(&hash, "hash", "", "existing editor user hash")
	cmd.Flags().StringVar(&returnURL, "return-url", "", "URL the editor returns to")
	cmd.Flags().StringVar(&cancelURL, "cancel-url", "", "URL the editor returns to on cancel")
	return cmd
}

func (c *cli) designGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show design details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				d, err := connect.NewDesignRepository(s.client).Find(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.render(cmd, d, func(tw *tabWriter) { printDesignDetail(tw, d) })
			})
		},
	}
}

func (c *cli) designSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <id>",
		Short: "Submit a finished design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				d, err := connect.NewDesignRepository(s.client).Submit(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.render(cmd, d, func(tw *tabWriter) { printDesignDetail(tw, d) })
			})
		},
	}
}

func (c *cli) designPreviewCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:     "preview <id>",
		Short:   "Download the PDF preview of a design",
		Example: `  connectctl designs preview 42 --out design-42.pdf`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intArg(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("design-%d.pdf", id)
			}
			return c.run(cmd, func(s *session) error {
				if err := connect.NewDesignRepository(s.client).SavePreview(cmd.Context(), id, out); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Preview saved: %s\n", out)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (default design-<id>.pdf)")
	return cmd
}
