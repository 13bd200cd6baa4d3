package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func (c *cli) ordersCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "orders",
		Short: "Manage orders",
		Long: "Create orders from JSON files, add items, and submit or cancel them.\n" +
			"Orders stay editable until they are submitted.",
	}

	root.AddCommand(
		c.orderCreateCmd(),
		c.orderGetCmd(),
		c.orderListCmd(),
		c.orderAddItemCmd(),
		c.orderSubmitCmd(),
		c.orderCancelCmd(),
	)
	return root
}

func (c *cli) orderCreateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order from a JSON document",
		Long: "Create an order from a JSON document holding the order fields\n" +
			"(reference, recipient, shipper, items, ...). Use --file - for stdin.",
		Example: `  connectctl orders create --file order.json
  cat order.json | connectctl orders create --file - --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			o, err := readOrder(cmd, file)
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				if err := connect.NewOrderRepository(s.client).Create(cmd.Context(), o); err != nil {
					return err
				}
				return c.render(cmd, o, func(tw *tabWriter) { printOrderDetail(tw, o) })
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "order JSON file, or - for stdin")
	return cmd
}

func readOrder(cmd *cobra.Command, file string) (*connect.Order, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file) //nolint:gosec // order path from trusted CLI flag
	}
	if err != nil {
		return nil, fmt.Errorf("reading order: %w", err)
	}

	o := &connect.Order{}
	if err := json.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("parsing order JSON: %w", err)
	}
	return o, nil
}

func (c *cli) orderGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show order details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				o, err := connect.NewOrderRepository(s.client).Find(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.render(cmd, o, func(tw *tabWriter) { printOrderDetail(tw, o) })
			})
		},
	}
}

func (c *cli) orderListCmd() *cobra.Command {
	var (
		lf        listFlags
		reference string
		status    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Example: `  connectctl orders list --status draft
  connectctl orders list --all --per-page 50 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lo, err := lf.options()
			if err != nil {
				return err
			}
			opts := connect.OrderOptions{ListOptions: lo, Reference: reference, Status: status}
			return c.run(cmd, func(s *session) error {
				repo := connect.NewOrderRepository(s.client)
				if lf.all {
					res, err := connect.NewPaginator(connect.PageOrders(repo, opts),
						append(lf.paginatorOptions(), connect.WithPaginatorLogger(s.log))...).
						Paginate(cmd.Context())
					if err != nil {
						return err
					}
					return c.render(cmd, res.Items, func(tw *tabWriter) {
						printOrdersTable(tw, res.Items)
						resultFooter(tw, res.PagesUsed, res.StoppedAt, res.Total)
					})
				}
				page, err := repo.All(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return c.render(cmd, page, func(tw *tabWriter) {
					printOrdersTable(tw, page.Data)
					pageFooter(tw, page.Meta)
				})
			})
		},
	}
	lf.bindAll(cmd)
	cmd.Flags().StringVar(&reference, "reference", "", "filter by order reference")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func (c *cli) orderAddItemCmd() *cobra.Command {
	var (
		sku       string
		quantity  int
		reference string
		comment   string
		relation  int
	)

	cmd := &cobra.Command{
		Use:   "add-item <order-id>",
		Short: "Add an item to an order",
		Example: `  connectctl orders add-item 12 --sku MP-F10005-C0000001 --quantity 2
  connectctl orders add-item 12 --sku MP-SERVICE-GIFTWRAP --quantity 1 --relation 31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := intArg(args[0])
			if err != nil {
				return err
			}
			item := &connect.OrderItem{
				SKU:       sku,
				Quantity:  quantity,
				Reference: reference,
				Comment:   comment,
			}
			if relation > 0 {
				item.Relation = &connect.OrderItemRelation{OrderItemID: relation}
			}
			return c.run(cmd, func(s *session) error {
				if err := connect.NewOrderRepository(s.client).AddItem(cmd.Context(), orderID, item); err != nil {
					return err
				}
				return c.render(cmd, item, func(tw *tabWriter) { printOrderItem(tw, item) })
			})
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "product sku")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "quantity")
	cmd.Flags().StringVar(&reference, "reference", "", "item reference")
	cmd.Flags().StringVar(&comment, "comment", "", "item comment")
	cmd.Flags().IntVar(&relation, "relation", 0, "id of the order item this item belongs to")
	return cmd
}

func (c *cli) orderSubmitCmd() *cobra.Command {
	return c.orderTransitionCmd("submit", "Submit an order for production", (*connect.OrderRepository).Submit)
}

func (c *cli) orderCancelCmd() *cobra.Command {
	return c.orderTransitionCmd("cancel", "Cancel an order", (*connect.OrderRepository).Cancel)
}

func (c *cli) orderTransitionCmd(
	use, short string,
	action func(*connect.OrderRepository, context.Context, int) (*connect.Order, error),
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
				o, err := action(connect.NewOrderRepository(s.client), cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.render(cmd, o, func(tw *tabWriter) { printOrderDetail(tw, o) })
			})
		},
	}
}
