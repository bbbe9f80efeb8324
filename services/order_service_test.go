package services

import (
	"encoding/json"
	"net/url"
	"testing"

	"storefront_server/i18n"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestIsValidStatusTransition(t *testing.T) {
	cases := []struct {
		from, to tables.OrderStatus
		want     bool
	}{
		{tables.OrderStatusPending, tables.OrderStatusContacted, true},
		{tables.OrderStatusPending, tables.OrderStatusCompleted, true},
		{tables.OrderStatusPending, tables.OrderStatusCancelled, true},
		{tables.OrderStatusPending, tables.OrderStatusExpired, true},
		{tables.OrderStatusContacted, tables.OrderStatusCompleted, true},
		{tables.OrderStatusContacted, tables.OrderStatusCancelled, true},
		{tables.OrderStatusContacted, tables.OrderStatusPending, false},
		{tables.OrderStatusContacted, tables.OrderStatusExpired, false},
		{tables.OrderStatusCompleted, tables.OrderStatusCancelled, false},
		{tables.OrderStatusCancelled, tables.OrderStatusPending, false},
		{tables.OrderStatusExpired, tables.OrderStatusContacted, false},
		{tables.OrderStatusPending, tables.OrderStatusPending, false},
		{"unknown", tables.OrderStatusCompleted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, isValidStatusTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStripCustomer(t *testing.T) {
	order := &tables.Order{OrderNumber: "DG-ABC234", CustomerName: "Sam", Contact: "+31600000000", Note: "hi", Total: 2500, MessagingLink: "https://wa.me/1?text=Sam"}
	out := stripCustomer(order)

	assert.Empty(t, out.CustomerName)
	assert.Empty(t, out.Contact)
	assert.Empty(t, out.Note)
	assert.Empty(t, out.MessagingLink)
	assert.Equal(t, "DG-ABC234", out.OrderNumber)
	assert.Equal(t, uint64(2500), out.Total)
}

func testBundleOrder() *tables.Order {
	return &tables.Order{
		OrderNumber:  "DG-ABC234",
		Kind:         tables.OrderKindBundle,
		CustomerName: "Jane Privatename",
		Contact:      "+31600000000",
		Note:         "my secret note",
		Lang:         "en",
		Total:        2500,
		Currency:     "USD",
		Status:       tables.OrderStatusPending,
		Lines: []tables.OrderLine{
			{Slot: 1, ProductSKU: "PTS", ProductName: "Points", UnitPrice: 1000},
			{Slot: 2, ProductSKU: "STR", ProductName: "Stream", UnitPrice: 1200},
			{Slot: 3, ProductSKU: "PAS", ProductName: "Pass", UnitPrice: 900},
		},
	}
}

func TestHandoffTextBundle(t *testing.T) {
	text := handoffText(language.English, "Pick 3", testBundleOrder())

	assert.Contains(t, text, `"Pick 3"`)
	assert.Contains(t, text, "Order number: DG-ABC234")
	assert.Contains(t, text, "Name: Jane Privatename")
	assert.Contains(t, text, "2. Stream ("+i18n.FormatPrice(language.English, 1200, "USD")+")")
	assert.Contains(t, text, "Bundle price: "+i18n.FormatPrice(language.English, 2500, "USD"))
	assert.Contains(t, text, "Note: my secret note")
}

func TestHandoffTextSingle(t *testing.T) {
	order := &tables.Order{
		OrderNumber:  "DG-XYZ789",
		Kind:         tables.OrderKindSingle,
		CustomerName: "Sam",
		Total:        999,
		Currency:     "USD",
		Lines:        []tables.OrderLine{{Slot: 1, ProductName: "Gift card", UnitPrice: 999}},
	}

	text := handoffText(language.English, "ignored", order)
	assert.Equal(t, SingleOrderText(language.English, "Gift card", "DG-XYZ789", "Sam", "", 999, "USD"), text)
}

func TestOrderLookupJSONHasNoCustomerData(t *testing.T) {
	ms := newTestMessaging(&structs.MessagingConfig{Provider: lib.ProviderWhatsApp, StorePhone: "+31 6 1234 5678"})
	order := testBundleOrder()
	link, err := ms.StoreLink(handoffText(language.English, "Pick 3", order))
	require.NoError(t, err)
	require.Contains(t, prefilledText(t, link), "Jane Privatename")
	order.MessagingLink = link

	body, err := json.Marshal(map[string]any{"order": stripCustomer(order)})
	require.NoError(t, err)

	for _, secret := range []string{"Jane Privatename", "my secret note", "+31600000000"} {
		assert.NotContains(t, string(body), secret)
		assert.NotContains(t, string(body), url.QueryEscape(secret))
	}
	assert.NotContains(t, string(body), "messaging_link")
	assert.Contains(t, string(body), "DG-ABC234")
}
