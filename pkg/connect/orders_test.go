package connect_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func testRecipient() *connect.Address {
	return &connect.Address{
		Firstname:   "Erika",
		Lastname:    "Mustermann",
		Street:      "Heidestraße 17",
		Zip:         "51147",
		City:        "Köln",
		CountryCode: "DE",
		DateOfBirth: &connect.Date{Time: time.Date(1964, 8, 12, 0, 0, 0, 0, time.UTC)},
	}
}

func TestOrderRepository_Create(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	orders := connect.NewOrderRepository(c)

	o := &connect.Order{
		Reference:     "R-1001",
		Recipient:     testRecipient(),
		FakePreflight: true,
		Items: []connect.OrderItem{
			{SKU: "MP-F10001-C0000001", Quantity: 2},
		},
	}
	require.NoError(t, orders.Create(context.Background(), o))

	assert.Positive(t, o.ID)
	assert.Equal(t, "draft", o.Status)
	require.Len(t, o.Items, 1)
	assert.Positive(t, o.Items[0].ID)
	assert.Equal(t, o.ID, o.Items[0].OrderID)

	found, err := orders.Find(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "R-1001", found.Reference)
	require.NotNil(t, found.Recipient)
	require.NotNil(t, found.Recipient.DateOfBirth)
	assert.Equal(t, "1964-08-12", found.Recipient.DateOfBirth.Format("2006-01-02"))
}

func TestOrderRepository_Create_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		order *connect.Order
	}{
		{name: "nil order", order: nil},
		{name: "already created", order: &connect.Order{ID: 3, Recipient: testRecipient()}},
		{name: "no recipient", order: &connect.Order{Reference: "R"}},
		{
			name: "item without sku",
			order: &connect.Order{
				Recipient: testRecipient(),
				Items:     []connect.OrderItem{{Quantity: 1}},
			},
		},
		{
			name: "zero quantity",
			order: &connect.Order{
				Recipient: testRecipient(),
				Items:     []connect.OrderItem{{SKU: "MP-1"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, ms := newMockAPI(t, nil)

			err := connect.NewOrderRepository(c).Create(context.Background(), tt.order)
			require.ErrorIs(t, err, connect.ErrInvalidArgument)
			assert.Zero(t, ms.TokenExchanges())
		})
	}
}

func TestOrderRepository_Create_ServerValidation(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)

	o := &connect.Order{Recipient: &connect.Address{Lastname: "Mustermann"}}
	err := connect.NewOrderRepository(c).Create(context.Background(), o)
	require.ErrorIs(t, err, connect.ErrOrder)

	var ce *connect.Error
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Errors, "recipient.country_code")
	assert.Contains(t, err.Error(), "recipient.country_code")
}

func TestOrderRepository_AddItem(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	orders := connect.NewOrderRepository(c)

	o := &connect.Order{Reference: "R-2", Recipient: testRecipient()}
	require.NoError(t, orders.Create(context.Background(), o))

	base := &connect.OrderItem{SKU: "MP-F10001-C0000001", Quantity: 1}
	require.NoError(t, orders.AddItem(context.Background(), o.ID, base))
	assert.Positive(t, base.ID)
	assert.Equal(t, o.ID, base.OrderID)

	addon := &connect.OrderItem{
		SKU:      "MP-F10002-C0000002",
		Quantity: 1,
		Relation: &connect.OrderItemRelation{OrderItemID: base.ID},
	}
	require.NoError(t, orders.AddItem(context.Background(), o.ID, addon))

	found, err := orders.Find(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 2)
}

func TestOrderRepository_AddItem_UnknownRelation(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	orders := connect.NewOrderRepository(c)

	o := &connect.Order{Reference: "R-3", Recipient: testRecipient()}
	require.NoError(t, orders.Create(context.Background(), o))

	item := &connect.OrderItem{
		SKU:      "MP-F10001-C0000001",
		Quantity: 1,
		Relation: &connect.OrderItemRelation{OrderItemID: 9999},
	}
	err := orders.AddItem(context.Background(), o.ID, item)
	require.ErrorIs(t, err, connect.ErrOrder)
	assert.Zero(t, item.ID)

	var ce *connect.Error
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Errors, "relation.order_item_id")
}

func TestOrderRepository_AddItem_Invalid(t *testing.T) {
	t.Parallel()

	c, ms := newMockAPI(t, nil)
	orders := connect.NewOrderRepository(c)

	tests := []struct {
		name    string
		orderID int
		item    *connect.OrderItem
	}{
		{name: "bad order id", orderID: 0, item: &connect.OrderItem{SKU: "MP-1", Quantity: 1}},
		{name: "nil item", orderID: 1, item: nil},
		{name: "item has id", orderID: 1, item: &connect.OrderItem{ID: 5, SKU: "MP-1", Quantity: 1}},
		{
			name:    "relation without id",
			orderID: 1,
			item: &connect.OrderItem{
				SKU:      "MP-1",
				Quantity: 1,
				Relation: &connect.OrderItemRelation{},
			},
		},
	}

	for _, tt := range tests {
		err := orders.AddItem(context.Background(), tt.orderID, tt.item)
		require.ErrorIs(t, err, connect.ErrInvalidArgument, tt.name)
	}
	assert.Zero(t, ms.TokenExchanges())
}

func TestOrderRepository_SubmitAndCancel(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	orders := connect.NewOrderRepository(c)

	submitted := &connect.Order{Reference: "R-4", Recipient: testRecipient()}
	require.NoError(t, orders.Create(context.Background(), submitted))
	out, err := orders.Submit(context.Background(), submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, "submitted", out.Status)

	// A submitted order can no longer be canceled.
	_, err = orders.Cancel(context.Background(), submitted.ID)
	require.ErrorIs(t, err, connect.ErrOrder)

	canceled := &connect.Order{Reference: "R-5", Recipient: testRecipient()}
	require.NoError(t, orders.Create(context.Background(), canceled))
	out, err = orders.Cancel(context.Background(), canceled.ID)
	require.NoError(t, err)
	assert.Equal(t, "canceled", out.Status)
}

func TestOrderRepository_All(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	orders := connect.NewOrderRepository(c)

	for _, ref := range []string{"A", "B", "A"} {
		require.NoError(t, orders.Create(context.Background(), &connect.Order{Reference: ref, Recipient: testRecipient()}))
	}

	all, err := orders.All(context.Background(), connect.OrderOptions{})
	require.NoError(t, err)
	assert.Len(t, all.Data, 3)
	assert.Equal(t, 3, all.Meta.Total)

	filtered, err := orders.All(context.Background(), connect.OrderOptions{Reference: "A"})
	require.NoError(t, err)
	assert.Len(t, filtered.Data, 2)

	paged, err := orders.All(context.Background(), connect.OrderOptions{
		ListOptions: connect.ListOptions{Page: 2, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Len(t, paged.Data, 1)
	assert.False(t, paged.HasMore())
}
