package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func (c *cli) filesCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "files",
		Short: "Download files",
	}
	root.AddCommand(c.fileDownloadCmd())
	return root
}

func (c *cli) fileDownloadCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download <key-or-url>",
		Short: "Download a file by key or URL",
		Long: "Download a file the API references, such as an export feed. The\n" +
			"argument is either a file key or an absolute download URL. Without\n" +
			"--out the content is written to stdout.",
		Example: `  connectctl files download exports/feed-12.csv --out feed.csv
  connectctl files download https://api.mypromo.com/downloads/feed-12.csv > feed.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(s *session) error {
				repo := connect.NewGeneralRepository(s.client)
				if out != "" {
					if err := repo.SaveFile(cmd.Context(), args[0], out); err != nil {
						return err
					}
					_, err := fmt.Fprintf(cmd.ErrOrStderr(), "File saved: %s\n", out)
					return err
				}
				data, err := repo.DownloadFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (default stdout)")
	return cmd
}
