package services

import (
	"storefront_server/i18n"
	"storefront_server/lib"
	"storefront_server/structs"
	"strings"

	"github.com/MonkyMars/gecho"
	"golang.org/x/text/language"
)

// MessagingService builds prefilled chat links for order and marketplace hand-offs
type MessagingService struct {
	logger *gecho.Logger
	cfg    *structs.MessagingConfig
}

func NewMessagingService(logger *gecho.Logger, cfg *structs.Config) *MessagingService {
	return &MessagingService{logger: logger, cfg: cfg.Messaging}
}

// storeRecipient is the phone number or handle that receives catalog and bundle orders
func (ms *MessagingService) storeRecipient() string {
	if strings.EqualFold(ms.cfg.Provider, lib.ProviderTelegram) {
		return ms.cfg.TelegramHandle
	}
	return ms.cfg.StorePhone
}

// StoreLink opens a chat with the store
func (ms *MessagingService) StoreLink(text string) (string, error) {
	return ms.link(ms.storeRecipient(), text)
}

// MediatorLink opens a chat with the marketplace mediator, falling back to the store
func (ms *MessagingService) MediatorLink(text string) (string, error) {
	recipient := ms.cfg.MediatorPhone
	if recipient == "" {
		recipient = ms.storeRecipient()
	}
	return ms.link(recipient, text)
}

// DirectLink opens a chat with an arbitrary contact, e.g. a marketplace seller
func (ms *MessagingService) DirectLink(contact, text string) (string, error) {
	return ms.link(contact, text)
}

func (ms *MessagingService) link(recipient, text string) (string, error) {
	link, err := lib.BuildMessagingLink(ms.cfg.Provider, recipient, text)
	if err != nil {
		ms.logger.Warn("Failed to build messaging link", gecho.Field("error", err), gecho.Field("provider", ms.cfg.Provider))
		return "", err
	}
	return link, nil
}

// itemLines renders one numbered line per bundle item
func itemLines(tag language.Tag, items []BundleItem, currency string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = i18n.Sprintf(tag, i18n.MsgOrderLine, item.Slot, item.Name, i18n.FormatPrice(tag, item.Price, currency))
	}
	return strings.Join(lines, "\n")
}

func withNote(tag language.Tag, text, note string) string {
	if note = strings.TrimSpace(note); note != "" {
		text += "\n" + i18n.Sprintf(tag, i18n.MsgNote, note)
	}
	return text
}

// BundleQuoteText is the message for a bundle that has not been ordered yet
func BundleQuoteText(tag language.Tag, title string, summary *BundleSummary) string {
	return i18n.Sprintf(tag, i18n.MsgBundleQuote,
		title,
		itemLines(tag, summary.Items, summary.Currency),
		i18n.FormatPrice(tag, summary.BundlePrice, summary.Currency),
	)
}

// BundleOrderText is the message sent to the store for a placed bundle order
func BundleOrderText(tag language.Tag, title, orderNumber, customerName, note string, summary *BundleSummary) string {
	text := i18n.Sprintf(tag, i18n.MsgBundleOrder,
		title,
		orderNumber,
		customerName,
		itemLines(tag, summary.Items, summary.Currency),
		i18n.FormatPrice(tag, summary.BundlePrice, summary.Currency),
	)
	return withNote(tag, text, note)
}

// SingleOrderText is the message sent to the store for a single product order
func SingleOrderText(tag language.Tag, productName, orderNumber, customerName, note string, price uint64, currency string) string {
	text := i18n.Sprintf(tag, i18n.MsgSingleOrder, productName, orderNumber, customerName, i18n.FormatPrice(tag, price, currency))
	return withNote(tag, text, note)
}

// SellerContactText is the message a buyer sends straight to a marketplace seller
func SellerContactText(tag language.Tag, title string, price uint64, currency, buyerName, message string) string {
	text := i18n.Sprintf(tag, i18n.MsgSellerContact, title, i18n.FormatPrice(tag, price, currency), buyerName)
	return withNote(tag, text, message)
}

// MediatorText asks the mediator to handle a marketplace purchase
func MediatorText(tag language.Tag, title string, price uint64, currency, listingID, buyerName, message string) string {
	text := i18n.Sprintf(tag, i18n.MsgMediator, title, i18n.FormatPrice(tag, price, currency), listingID, buyerName)
	return withNote(tag, text, message)
}
