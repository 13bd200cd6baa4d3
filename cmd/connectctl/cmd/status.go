package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check API availability",
		Long: "Authenticate and query the API status endpoint. Exits non-zero when\n" +
			"the API reports anything other than OK.",
		Example: `  connectctl status
  CONNECT_ENDPOINT_URL=https://sandbox.mypromo.com connectctl status --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(s *session) error {
				st, err := s.client.Status(cmd.Context())
				if err != nil {
					return err
				}
				if err := c.render(cmd, st, func(tw *tabWriter) {
					tw.writef("Endpoint:\t%s\n", s.cfg.Connect.EndpointURL)
					tw.writef("Status:\t%s\n", st.Message)
				}); err != nil {
					return err
				}
				if !st.OK() {
					return fmt.Errorf("%w: api status %q", connect.ErrAPI, st.Message)
				}
				return nil
			})
		},
	}
}
