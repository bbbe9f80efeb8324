package services

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"storefront_server/database"
	"storefront_server/i18n"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/resend/resend-go/v3"
)

var (
	emailClient     *resend.Client
	emailClientOnce sync.Once
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
	db     *database.DB
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		db:     db,
		client: getEmailClient(cfg.Email.ApiKey),
	}
}

func getEmailClient(apiKey string) *resend.Client {
	emailClientOnce.Do(func() {
		emailClient = resend.NewClient(apiKey)
	})
	return emailClient
}

// Enabled reports whether an API key is configured
func (es *EmailService) Enabled() bool {
	return es.cfg.Email.ApiKey != ""
}

func (es *EmailService) SendEmail(ctx context.Context, to []string, subject string, body string) error {
	if !es.Enabled() {
		es.logger.Debug("Email disabled, not sending", gecho.Field("subject", subject))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}
	if _, err := es.client.Emails.Send(params); err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("subject", subject))
		return err
	}
	return nil
}

// SendVerificationEmail stores a fresh verification token for user and mails the link
func (es *EmailService) SendVerificationEmail(ctx context.Context, user *tables.User) error {
	token, err := lib.GenerateRandomToken()
	if err != nil {
		es.logger.Error("Failed to generate verification token", gecho.Field("error", err))
		return err
	}

	expiration := time.Now().Add(es.cfg.Email.VerificationTokenExpiry)
	verification := &tables.EmailVerification{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: expiration,
		CreatedAt: time.Now(),
	}
	if _, err := database.Query[tables.EmailVerification](es.db).Insert(ctx, verification); err != nil {
		es.logger.Error("Failed to store email verification token", gecho.Field("error", err))
		return lib.MapPgError(err)
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(es.cfg.Server.FrontendURL, "/"), url.QueryEscape(token))
	minutes := time.Until(expiration).Minutes()
	name := html.EscapeString(user.Username)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1>Verify your email address</h1>
		<p>Hi %s, please verify your email by opening the following link:</p>
		<p><a href="%s">Verify email</a></p>
		<p>This link will expire in %.0f minutes. If you did not create an account, ignore this email.</p>
		<hr>
		<div dir="rtl">
			<h1>تأكيد بريدك الإلكتروني</h1>
			<p>مرحباً %s، يرجى تأكيد بريدك الإلكتروني عبر الرابط التالي:</p>
			<p><a href="%s">تأكيد البريد الإلكتروني</a></p>
			<p>ينتهي هذا الرابط خلال %.0f دقيقة. إذا لم تقم بإنشاء حساب، تجاهل هذه الرسالة.</p>
		</div>
		<p style="word-break: break-all; color: #666; font-size: 12px;">%s</p>
	</div>
</body>
</html>`, name, link, minutes, name, link, minutes, link)

	return es.SendEmail(ctx, []string{user.Email}, "Verify your email / تأكيد بريدك الإلكتروني", body)
}

// SendOrderNotification tells the operator inbox about a new order. The customer fields are plaintext.
func (es *EmailService) SendOrderNotification(ctx context.Context, order *tables.Order, customerName, contact, note string) error {
	inbox := es.cfg.Email.OperatorInbox
	if inbox == "" {
		return nil
	}

	var items strings.Builder
	for _, line := range order.Lines {
		fmt.Fprintf(&items, "<li>%d. %s (%s) - %s</li>",
			line.Slot,
			html.EscapeString(line.ProductName),
			html.EscapeString(line.ProductSKU),
			i18n.FormatPrice(i18n.Default(), line.UnitPrice, order.Currency),
		)
	}

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h2>New %s order %s</h2>
	<p><strong>Customer:</strong> %s<br><strong>Contact:</strong> %s<br><strong>Language:</strong> %s</p>
	<ul>%s</ul>
	<p><strong>Total:</strong> %s</p>
	<p><strong>Note:</strong> %s</p>
</body>
</html>`,
		order.Kind,
		html.EscapeString(order.OrderNumber),
		html.EscapeString(customerName),
		html.EscapeString(contact),
		html.EscapeString(order.Lang),
		items.String(),
		i18n.FormatPrice(i18n.Default(), order.Total, order.Currency),
		html.EscapeString(note),
	)

	subject := fmt.Sprintf("New order %s", order.OrderNumber)
	return es.SendEmail(ctx, []string{inbox}, subject, body)
}

// resendCooldown is the minimum time between two verification emails for one user
const resendCooldown = 2 * time.Minute

// ResendVerificationEmail replaces the user's pending tokens with a new one.
// A positive duration means the previous email is too recent and nothing was sent.
func (es *EmailService) ResendVerificationEmail(ctx context.Context, user *tables.User) (time.Duration, error) {
	recent, err := database.Query[tables.EmailVerification](es.db).
		Where("user_id", user.Id).
		OrderBy("created_at", database.DESC).
		First(ctx)
	if err != nil {
		return 0, lib.MapPgError(err)
	}
	if recent != nil {
		if since := time.Since(recent.CreatedAt); since < resendCooldown {
			return resendCooldown - since, nil
		}
	}

	if _, err := database.Query[tables.EmailVerification](es.db).Where("user_id", user.Id).Delete(ctx); err != nil {
		es.logger.Warn("Failed to delete old verification tokens", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}
	return 0, es.SendVerificationEmail(ctx, user)
}
