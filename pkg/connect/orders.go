package connect

import (
	"context"
	"errors"
	"net/http"
)

// OrderRepository manages fulfillment orders.
type OrderRepository struct {
	c *Client
}

// NewOrderRepository returns an OrderRepository bound to c.
func NewOrderRepository(c *Client) *OrderRepository {
	return &OrderRepository{c: c}
}

// Create registers o and fills in its ID and status. Items carried on o
// are sent with the order.
func (r *OrderRepository) Create(ctx context.Context, o *Order) error {
	const op = "orders.create"

	if o == nil {
		return observe(invalidArgumentf(ResourceOrder, op, "order is nil"))
	}
	if o.ID != 0 {
		return observe(invalidArgumentf(ResourceOrder, op, "order already has id %d", o.ID))
	}
	if o.Recipient == nil {
		return observe(invalidArgumentf(ResourceOrder, op, "recipient address is required"))
	}
	for i := range o.Items {
		if err := validateItem(&o.Items[i]); err != nil {
			return observe(invalidArgumentf(ResourceOrder, op, "items[%d]: %v", i, err))
		}
	}

	created, err := sendOne[Order](ctx, r.c, ResourceOrder, op, http.MethodPost, routeOrders, o)
	if err != nil {
		return err
	}
	if created.ID == 0 {
		return observe(malformedResponse(ResourceOrder, op, http.StatusOK, errMissingField("id")))
	}

	o.ID = created.ID
	o.Status = created.Status
	o.CreatedAt = created.CreatedAt
	if len(created.Items) == len(o.Items) {
		o.Items = created.Items
	}
	return nil
}

// Find fetches an order by id.
func (r *OrderRepository) Find(ctx context.Context, id int) (*Order, error) {
	const op = "orders.find"
	if err := checkID(ResourceOrder, op, id); err != nil {
		return nil, err
	}
	return getOne[Order](ctx, r.c, ResourceOrder, op, member(routeOrders, id))
}

// All lists orders.
func (r *OrderRepository) All(ctx context.Context, opts OrderOptions) (*Page[Order], error) {
	return listPage[Order](ctx, r.c, ResourceOrder, "orders.all", routeOrders, opts)
}

// Submit releases the order for production.
func (r *OrderRepository) Submit(ctx context.Context, id int) (*Order, error) {
	const op = "orders.submit"
	if err := checkID(ResourceOrder, op, id); err != nil {
		return nil, err
	}
	return sendOne[Order](ctx, r.c, ResourceOrder, op, http.MethodPatch,
		member(routeOrders, id, "submit"), nil)
}

// Cancel cancels the order.
func (r *OrderRepository) Cancel(ctx context.Context, id int) (*Order, error) {
	const op = "orders.cancel"
	if err := checkID(ResourceOrder, op, id); err != nil {
		return nil, err
	}
	return sendOne[Order](ctx, r.c, ResourceOrder, op, http.MethodPatch,
		member(routeOrders, id, "cancel"), nil)
}

// AddItem adds item to an existing order and fills in its ID. A relation
// must name a positive item id; whether that item exists is checked by
// the API.
func (r *OrderRepository) AddItem(ctx context.Context, orderID int, item *OrderItem) error {
	const op = "orders.add_item"

	if err := checkID(ResourceOrder, op, orderID); err != nil {
		return err
	}
	if item == nil {
		return observe(invalidArgumentf(ResourceOrder, op, "item is nil"))
	}
	if item.ID != 0 {
		return observe(invalidArgumentf(ResourceOrder, op, "item already has id %d", item.ID))
	}
	if err := validateItem(item); err != nil {
		return observe(invalidArgument(ResourceOrder, op, err))
	}

	item.OrderID = orderID
	created, err := sendOne[OrderItem](ctx, r.c, ResourceOrder, op, http.MethodPost,
		member(routeOrders, orderID, "items"), item)
	if err != nil {
		return err
	}
	if created.ID == 0 {
		return observe(malformedResponse(ResourceOrder, op, http.StatusOK, errMissingField("id")))
	}
	item.ID = created.ID
	return nil
}

func validateItem(item *OrderItem) error {
	if item.SKU == "" {
		return errors.New("sku is required")
	}
	if item.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if item.Relation != nil && item.Relation.OrderItemID <= 0 {
		return errors.New("relation.order_item_id must be positive")
	}
	return nil
}
