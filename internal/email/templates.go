package email

import (
	"fmt"
	"html"
	"strings"

	"trailhead/internal/config"
	"trailhead/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .button:hover { background: #1d4ed8; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .value { color: #6b7280; }
        .success { color: #059669; }
        .warning { color: #d97706; }
        .error { color: #dc2626; }
        code { background: #e5e7eb; padding: 2px 6px; border-radius: 4px; font-family: monospace; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

func kindLabel(kind string) string {
	if kind == models.KindCampingSite {
		return "camping site"
	}
	return "hike"
}

func (t *Templates) entityURL(kind string, id fmt.Stringer) string {
	path := "hikes"
	if kind == models.KindCampingSite {
		path = "camping-sites"
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(t.cfg.BaseURL, "/"), path, id)
}

// EntitySubmitted generates the moderator alert for a new submission.
func (t *Templates) EntitySubmitted(e models.Entity, submitter *models.User) (subject, htmlBody, textBody string) {
	label := kindLabel(e.Kind())
	subject = fmt.Sprintf("[%s] New %s awaiting review: %s", t.cfg.SiteTitle, label, e.DisplayName())
	queueURL := strings.TrimRight(t.cfg.BaseURL, "/") + "/moderation"

	by := "an anonymous user"
	if submitter != nil {
		by = submitter.Name
		if submitter.Email != "" {
			by = fmt.Sprintf("%s (%s)", submitter.Name, submitter.Email)
		}
	}

	content := fmt.Sprintf(`
        <p>A new %s has been submitted and is waiting for review.</p>
        <div class="info-box">
            <p><span class="label">Name:</span> <span class="value">%s</span></p>
            <p><span class="label">Submitted by:</span> <span class="value">%s</span></p>
        </div>
        <p><a href="%s" class="button">Open Review Queue</a></p>
    `, label, html.EscapeString(e.DisplayName()), html.EscapeString(by), queueURL)

	htmlBody = t.baseHTML("New Submission", content)
	textBody = fmt.Sprintf(`A new %s has been submitted and is waiting for review.

Name: %s
Submitted by: %s

Open the review queue: %s
`, label, e.DisplayName(), by, queueURL)
	return
}

// EntityDecided generates the notice sent to a submitter after review.
func (t *Templates) EntityDecided(e models.Entity, status string) (subject, htmlBody, textBody string) {
	label := kindLabel(e.Kind())
	url := t.entityURL(e.Kind(), e.EntityID())

	if status == models.StatusApproved {
		subject = fmt.Sprintf("[%s] Your %s was approved: %s", t.cfg.SiteTitle, label, e.DisplayName())
		content := fmt.Sprintf(`
        <p class="success">Your %s <strong>%s</strong> has been approved and is now public.</p>
        <p><a href="%s" class="button">View It</a></p>
    `, label, html.EscapeString(e.DisplayName()), url)
		htmlBody = t.baseHTML("Submission Approved", content)
		textBody = fmt.Sprintf("Your %s %q has been approved and is now public.\n\nView it: %s\n", label, e.DisplayName(), url)
		return
	}

	subject = fmt.Sprintf("[%s] Your %s was not approved: %s", t.cfg.SiteTitle, label, e.DisplayName())
	content := fmt.Sprintf(`
        <p class="error">Your %s <strong>%s</strong> was reviewed and not approved.</p>
        <p>You can still see it in your submissions and edit it before asking for another review.</p>
    `, label, html.EscapeString(e.DisplayName()))
	htmlBody = t.baseHTML("Submission Not Approved", content)
	textBody = fmt.Sprintf("Your %s %q was reviewed and not approved.\n", label, e.DisplayName())
	return
}

// AlterationDecided generates the notice sent to a proposer after review.
func (t *Templates) AlterationDecided(a *models.Alteration, applied bool) (subject, htmlBody, textBody string) {
	kind, id := a.Target()
	label := kindLabel(kind)
	name := a.EntityName
	if name == "" {
		name = label
	}

	var outcome, cls string
	switch {
	case a.Status == models.StatusApproved && applied:
		outcome, cls = "approved and applied", "success"
	case a.Status == models.StatusApproved:
		outcome, cls = "approved", "success"
	default:
		outcome, cls = "rejected", "error"
	}

	subject = fmt.Sprintf("[%s] Your suggested change to %s was %s", t.cfg.SiteTitle, name, outcome)
	url := t.entityURL(kind, id)

	content := fmt.Sprintf(`
        <p class="%s">Your suggested change was %s.</p>
        <div class="info-box">
            <p><span class="label">Field:</span> <code>%s</code></p>
            <p><span class="label">Proposed value:</span> <span class="value">%s</span></p>
        </div>
        <p><a href="%s" class="button">View %s</a></p>
    `, cls, outcome, html.EscapeString(a.FieldName), html.EscapeString(a.NewValue), url, html.EscapeString(name))

	htmlBody = t.baseHTML("Suggested Change Reviewed", content)
	textBody = fmt.Sprintf(`Your suggested change to %s was %s.

Field: %s
Proposed value: %s

View it: %s
`, name, outcome, a.FieldName, a.NewValue, url)
	return
}
