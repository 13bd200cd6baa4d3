package mockserver

import (
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

const (
	orderStatusDraft     = "draft"
	orderStatusSubmitted = "submitted"
	orderStatusCanceled  = "canceled"
)

func (s *Server) createOrder(c echo.Context) error {
	var o connect.Order
	if err := c.Bind(&o); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Malformed JSON body."})
	}

	errs := map[string][]string{}
	if o.Recipient == nil {
		errs["recipient"] = []string{"The recipient field is required."}
	} else if o.Recipient.CountryCode == "" {
		errs["recipient.country_code"] = []string{"The recipient.country code field is required."}
	}
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	s.mu.Lock()
	o.ID = s.newID()
	o.Status = orderStatusDraft
	o.CreatedAt = time.Now().UTC().Format(connect.QueryLayout)
	for i := range o.Items {
		o.Items[i].ID = s.newID()
		o.Items[i].OrderID = o.ID
	}
	stored := o
	stored.Items = slices.Clone(o.Items)
	s.orders[o.ID] = &stored
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, map[string]any{"data": o})
}

func (s *Server) findOrder(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "Order")
	}
	s.mu.Lock()
	o, found := s.orders[id]
	var out connect.Order
	if found {
		out = *o
	}
	s.mu.Unlock()
	if !found {
		return notFound(c, "Order")
	}
	return c.JSON(http.StatusOK, map[string]any{"data": out})
}

func (s *Server) listOrders(c echo.Context) error {
	ref := c.QueryParam("reference")
	status := c.QueryParam("status")

	s.mu.Lock()
	ids := make([]int, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]connect.Order, 0, len(ids))
	for _, id := range ids {
		o := s.orders[id]
		if (ref == "" || o.Reference == ref) && (status == "" || o.Status == status) {
			out = append(out, *o)
		}
	}
	s.mu.Unlock()

	return writePage(c, out, resourceEnvelope)
}

func (s *Server) submitOrder(c echo.Context) error {
	return s.transitionOrder(c, orderStatusSubmitted, "Only draft orders can be submitted.")
}

func (s *Server) cancelOrder(c echo.Context) error {
	return s.transitionOrder(c, orderStatusCanceled, "Only draft orders can be canceled.")
}

func (s *Server) transitionOrder(c echo.Context, to, rejectMsg string) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "Order")
	}

	s.mu.Lock()
	o, found := s.orders[id]
	if !found {
		s.mu.Unlock()
		return notFound(c, "Order")
	}
	if o.Status != orderStatusDraft {
		s.mu.Unlock()
		return conflict(c, rejectMsg)
	}
	o.Status = to
	out := *o
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"data": out})
}

func (s *Server) addOrderItem(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "Order")
	}

	var item connect.OrderItem
	if err := c.Bind(&item); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Malformed JSON body."})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, found := s.orders[id]
	if !found {
		return notFound(c, "Order")
	}

	errs := map[string][]string{}
	if item.SKU == "" {
		errs["sku"] = []string{"The sku field is required."}
	}
	if item.Quantity < 1 {
		errs["quantity"] = []string{"The quantity must be at least 1."}
	}
	if item.Relation != nil && !slices.ContainsFunc(o.Items, func(it connect.OrderItem) bool {
		return it.ID == item.Relation.OrderItemID
	}) {
		errs["relation.order_item_id"] = []string{"The selected relation.order item id is invalid."}
	}
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	item.ID = s.newID()
	item.OrderID = o.ID
	o.Items = append(o.Items, item)

	return c.JSON(http.StatusCreated, map[string]any{"data": item})
}
