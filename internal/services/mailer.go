package services

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/resend/resend-go/v2"

	"github.com/jesterfour4/higher-ground-care/internal/store"
)

// Mailer sends transactional email through Resend. A nil Mailer is valid
// and skips sending, so email stays optional in local development (same
// pattern as the Cloudinary service).
type Mailer struct {
	client   *resend.Client
	from     string
	notifyTo string
}

func NewMailer(apiKey, from, notifyTo string) *Mailer {
	if apiKey == "" {
		return nil
	}
	return &Mailer{
		client:   resend.NewClient(apiKey),
		from:     from,
		notifyTo: notifyTo,
	}
}

// SendMagicLink emails a one-time sign-in link.
func (m *Mailer) SendMagicLink(ctx context.Context, to, link string) error {
	if m == nil {
		log.Printf("Mailer not configured; magic link for %s: %s", to, link)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Your sign-in link for Higher Ground Care",
		Html: fmt.Sprintf(
			`<p>Hi!</p><p>Click the link below to sign in to Higher Ground Care:</p>`+
				`<p><a href="%s">Sign in</a></p>`+
				`<p>This link expires in 15 minutes. If you didn't request it, you can ignore this email.</p>`,
			html.EscapeString(link)),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send magic link email: %w", err)
	}
	log.Printf("Magic link email sent (id=%s)", sent.Id)
	return nil
}

// NotifyReferral emails the care team about a new provider referral.
// Best effort; callers log and move on when it fails.
func (m *Mailer) NotifyReferral(ctx context.Context, ref store.ReferralSubmission) error {
	if m == nil || m.notifyTo == "" {
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{m.notifyTo},
		Subject: fmt.Sprintf("New referral: %s", ref.ClientName),
		Html: fmt.Sprintf(
			`<p>New referral received.</p>`+
				`<p><strong>Provider:</strong> %s (%s)<br>`+
				`<strong>Clinic:</strong> %s<br>`+
				`<strong>Client:</strong> %s<br>`+
				`<strong>Primary concerns:</strong> %s<br>`+
				`<strong>Urgency:</strong> %s</p>`,
			html.EscapeString(ref.ReferringProvider), html.EscapeString(ref.ProviderEmail),
			html.EscapeString(ref.ClinicName), html.EscapeString(ref.ClientName),
			html.EscapeString(ref.PrimaryConcerns), html.EscapeString(ref.UrgencyLevel)),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send referral notification: %w", err)
	}
	log.Printf("Referral notification sent (id=%s)", sent.Id)
	return nil
}
