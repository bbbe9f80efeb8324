package services

import (
	"net/url"
	"strings"
	"testing"

	"storefront_server/config"
	"storefront_server/i18n"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newTestMessaging(cfg *structs.MessagingConfig) *MessagingService {
	return &MessagingService{logger: config.NewLogger(false), cfg: cfg}
}

func prefilledText(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("text")
}

func TestStoreLinkWhatsApp(t *testing.T) {
	ms := newTestMessaging(&structs.MessagingConfig{Provider: lib.ProviderWhatsApp, StorePhone: "+31 6 1234 5678"})

	link, err := ms.StoreLink("hello there")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/31612345678?text="))
	assert.Equal(t, "hello there", prefilledText(t, link))
}

func TestStoreLinkTelegram(t *testing.T) {
	ms := newTestMessaging(&structs.MessagingConfig{Provider: lib.ProviderTelegram, StorePhone: "123", TelegramHandle: "@shop"})

	link, err := ms.StoreLink("hi")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/shop?text=hi", link)
}

func TestTelegramLinksToPhoneNumbers(t *testing.T) {
	ms := newTestMessaging(&structs.MessagingConfig{
		Provider:       lib.ProviderTelegram,
		TelegramHandle: "@shop",
		MediatorPhone:  "+31 6 1111 2222",
	})

	link, err := ms.DirectLink("+31 6 9999 8888", "hi")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/+31699998888?text=hi", link)

	link, err = ms.MediatorLink("hi")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/+31611112222?text=hi", link)

	link, err = ms.StoreLink("hi")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/shop?text=hi", link)
}

func TestMediatorLinkFallsBackToStore(t *testing.T) {
	ms := newTestMessaging(&structs.MessagingConfig{Provider: lib.ProviderWhatsApp, StorePhone: "111"})
	link, err := ms.MediatorLink("x")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/111"))

	ms.cfg.MediatorPhone = "222"
	link, err = ms.MediatorLink("x")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/222"))
}

func TestStoreLinkNotConfigured(t *testing.T) {
	ms := newTestMessaging(&structs.MessagingConfig{Provider: lib.ProviderWhatsApp})
	_, err := ms.StoreLink("x")
	assert.ErrorIs(t, err, lib.ErrMessagingNotSetUp)
}

func testSummary() *BundleSummary {
	return &BundleSummary{
		Items: []BundleItem{
			{Slot: 1, Name: "Points", Price: 1000},
			{Slot: 2, Name: "Stream", Price: 1200},
			{Slot: 3, Name: "Pass", Price: 900},
		},
		BundlePrice: 2500,
		ItemsTotal:  3100,
		Savings:     600,
		Currency:    "USD",
	}
}

func TestBundleOrderText(t *testing.T) {
	text := BundleOrderText(language.English, "Pick 3", "DG-ABC234", "Sam", "  evening please ", testSummary())

	assert.Contains(t, text, `"Pick 3"`)
	assert.Contains(t, text, "Order number: DG-ABC234")
	assert.Contains(t, text, "Name: Sam")
	assert.Contains(t, text, "1. Points ("+i18n.FormatPrice(language.English, 1000, "USD")+")")
	assert.Contains(t, text, "2. Stream ("+i18n.FormatPrice(language.English, 1200, "USD")+")")
	assert.Contains(t, text, "3. Pass ("+i18n.FormatPrice(language.English, 900, "USD")+")")
	assert.Contains(t, text, "Bundle price: "+i18n.FormatPrice(language.English, 2500, "USD"))
	assert.True(t, strings.HasSuffix(text, "\nNote: evening please"))
}

func TestBundleOrderTextArabic(t *testing.T) {
	text := BundleOrderText(language.Arabic, "Pick 3", "DG-ABC234", "Sam", "", testSummary())

	assert.Contains(t, text, "رقم الطلب")
	assert.Contains(t, text, "DG-ABC234")
	assert.Contains(t, text, i18n.FormatPrice(language.Arabic, 2500, "USD"))
	assert.NotContains(t, text, "ملاحظة")
}

func TestBundleQuoteText(t *testing.T) {
	text := BundleQuoteText(language.English, "Pick 3", testSummary())
	assert.Contains(t, text, "Pick 3")
	assert.Contains(t, text, "Bundle price: "+i18n.FormatPrice(language.English, 2500, "USD"))
	assert.NotContains(t, text, "Order number")
}

func TestMarketplaceTexts(t *testing.T) {
	seller := SellerContactText(language.English, "Old account", 1550, "EUR", "Noor", "")
	assert.Contains(t, seller, `"Old account" (`+i18n.FormatPrice(language.English, 1550, "EUR")+")")
	assert.Contains(t, seller, "15.50")
	assert.Contains(t, seller, "My name is Noor.")

	mediator := MediatorText(language.English, "Old account", 1550, "EUR", "abc-123", "Noor", "is it still available?")
	assert.Contains(t, mediator, "ID abc-123")
	assert.Contains(t, mediator, "Buyer: Noor")
	assert.Contains(t, mediator, "Note: is it still available?")
}

func TestSingleOrderText(t *testing.T) {
	text := SingleOrderText(language.English, "Gift card", "DG-XYZ789", "Sam", "", 999, "USD")
	price := i18n.FormatPrice(language.English, 999, "USD")
	assert.Equal(t, "Hello! I would like to order Gift card.\nOrder number: DG-XYZ789\nName: Sam\nPrice: "+price, text)
	assert.Contains(t, price, "9.99")
}

func TestTextsFollowCurrencyDecimals(t *testing.T) {
	text := SingleOrderText(language.English, "Gift card", "DG-XYZ789", "Sam", "", 1200, "JPY")
	assert.Contains(t, text, "Price: "+i18n.FormatPrice(language.English, 1200, "JPY"))
	assert.NotContains(t, text, "12.00")
}
