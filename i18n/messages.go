package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys used for localized text.
const (
	MsgBundleOrder   = "handoff.bundle_order"
	MsgBundleQuote   = "handoff.bundle_quote"
	MsgSingleOrder   = "handoff.single_order"
	MsgSellerContact = "handoff.seller_contact"
	MsgMediator      = "handoff.mediator"
	MsgOrderLine     = "handoff.order_line"
	MsgNote          = "handoff.note"

	MsgVerifySubject = "email.verify.subject"
	MsgVerifyBody    = "email.verify.body"
)

var messages = map[language.Tag]map[string]string{
	language.English: {
		MsgBundleOrder:   "Hello! I would like to order the bundle offer \"%s\".\nOrder number: %s\nName: %s\n%s\nBundle price: %s",
		MsgBundleQuote:   "Hello! I am interested in the bundle offer \"%s\":\n%s\nBundle price: %s",
		MsgSingleOrder:   "Hello! I would like to order %s.\nOrder number: %s\nName: %s\nPrice: %s",
		MsgSellerContact: "Hello! I am interested in your marketplace listing \"%s\" (%s).\nMy name is %s.",
		MsgMediator:      "Hello! I would like a mediated purchase of the marketplace listing \"%s\" (%s, ID %s).\nBuyer: %s",
		MsgOrderLine:     "%d. %s (%s)",
		MsgNote:          "Note: %s",
		MsgVerifySubject: "Verify your email address",
		MsgVerifyBody:    "Hi %s, confirm your email address by opening this link: %s",

		"category.games":         "Games",
		"category.entertainment": "Entertainment subscriptions",
		"category.misc":          "Misc",
	},
	language.Arabic: {
		MsgBundleOrder:   "مرحباً! أود طلب عرض الباقة \"%s\".\nرقم الطلب: %s\nالاسم: %s\n%s\nسعر الباقة: %s",
		MsgBundleQuote:   "مرحباً! أنا مهتم بعرض الباقة \"%s\":\n%s\nسعر الباقة: %s",
		MsgSingleOrder:   "مرحباً! أود طلب %s.\nرقم الطلب: %s\nالاسم: %s\nالسعر: %s",
		MsgSellerContact: "مرحباً! أنا مهتم بإعلانك في السوق \"%s\" (%s).\nاسمي %s.",
		MsgMediator:      "مرحباً! أود شراء إعلان السوق \"%s\" (%s، المعرف %s) عبر وسيط.\nالمشتري: %s",
		MsgOrderLine:     "%d. %s (%s)",
		MsgNote:          "ملاحظة: %s",
		MsgVerifySubject: "تأكيد بريدك الإلكتروني",
		MsgVerifyBody:    "مرحباً %s، يرجى تأكيد بريدك الإلكتروني عبر فتح هذا الرابط: %s",

		"category.games":         "الألعاب",
		"category.entertainment": "اشتراكات الترفيه",
		"category.misc":          "متفرقات",
	},
}

var builder = newBuilder()

func newBuilder() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("i18n: " + key + ": " + err.Error())
			}
		}
	}
	return b
}

// Printer returns a message printer for tag. Unknown languages fall back to English.
func Printer(tag language.Tag) *message.Printer {
	t := baseTag(tag)
	if _, ok := messages[t]; !ok {
		t = language.English
	}
	return message.NewPrinter(t, message.Catalog(builder))
}

// Sprintf formats the message stored under key in the language of tag.
func Sprintf(tag language.Tag, key string, args ...any) string {
	return Printer(tag).Sprintf(key, args...)
}
