package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

// lookupCmd builds "<noun> list" for a read-only lookup table.
func lookupCmd[T any](
	c *cli,
	noun, short string,
	fetch func(ctx context.Context, client *connect.Client, lo connect.ListOptions) (*connect.Page[T], error),
	header string,
	row func(tw *tabWriter, item *T),
	extra func(cmd *cobra.Command),
) *cobra.Command {
	var lf listFlags

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + noun,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lo, err := lf.options()
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				page, err := fetch(cmd.Context(), s.client, lo)
				if err != nil {
					return err
				}
				return c.render(cmd, page, func(tw *tabWriter) {
					tw.writef("%s\n", header)
					for i := range page.Data {
						row(tw, &page.Data[i])
					}
					pageFooter(tw, page.Meta)
				})
			})
		},
	}
	lf.bind(list)
	if extra != nil {
		extra(list)
	}

	root := &cobra.Command{Use: noun, Short: short}
	root.AddCommand(list)
	return root
}

func (c *cli) carriersCmd() *cobra.Command {
	return lookupCmd(c, "carriers", "Shipping carriers",
		func(ctx context.Context, client *connect.Client, lo connect.ListOptions) (*connect.Page[connect.Carrier], error) {
			return connect.NewCarrierRepository(client).All(ctx, connect.CarrierOptions{ListOptions: lo})
		},
		"ID\tNAME\tCODE",
		func(tw *tabWriter, v *connect.Carrier) { tw.writef("%d\t%s\t%s\n", v.ID, v.Name, dash(v.Code)) },
		nil,
	)
}

func (c *cli) countriesCmd() *cobra.Command {
	return lookupCmd(c, "countries", "Countries",
		func(ctx context.Context, client *connect.Client, lo connect.ListOptions) (*connect.Page[connect.Country], error) {
			return connect.NewCountryRepository(client).All(ctx, connect.CountryOptions{ListOptions: lo})
		},
		"CODE\tNAME",
		func(tw *tabWriter, v *connect.Country) { tw.writef("%s\t%s\n", v.Code, v.Name) },
		nil,
	)
}

func (c *cli) localesCmd() *cobra.Command {
	return lookupCmd(c, "locales", "Locales",
		func(ctx context.Context, client *connect.Client, lo connect.ListOptions) (*connect.Page[connect.Locale], error) {
			return connect.NewLocaleRepository(client).All(ctx, connect.LocaleOptions{ListOptions: lo})
		},
		"CODE\tNAME",
		func(tw *tabWriter, v *connect.Locale) { tw.writef("%s\t%s\n", v.Code, v.Name) },
		nil,
	)
}

func (c *cli) statesCmd() *cobra.Command {
	var country string
	return lookupCmd(c, "states", "States and regions",
		func(ctx context.Context, client *connect.Client, lo connect.ListOptions) (*connect.Page[connect.State], error) {
			return connect.NewStateRepository(client).All(ctx, connect.StateOptions{ListOptions: lo, CountryCode: country})
		},
		"CODE\tNAME\tCOUNTRY",
		func(tw *tabWriter, v *connect.State) { tw.writef("%s\t%s\t%s\n", v.Code, v.Name, dash(v.CountryCode)) },
		func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&country, "country", "", "only states of this country code")
		},
	)
}

func (c *cli) timezonesCmd() *cobra.Command {
	return lookupCmd(c, "timezones", "Timezones",
		func(ctx context.Context, client *connect.Client, lo connect.ListOptions) (*connect.Page[connect.Timezone], error) {
			return connect.NewTimezoneRepository(client).All(ctx, connect.TimezoneOptions{ListOptions: lo})
		},
		"NAME\tOFFSET",
		func(tw *tabWriter, v *connect.Timezone) { tw.writef("%s\t%s\n", v.Name, dash(v.Offset)) },
		nil,
	)
}
