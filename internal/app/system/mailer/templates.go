// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// PasswordResetEmailData holds data for the password reset message.
type PasswordResetEmailData struct {
	SiteName  string
	Link      string
	ExpiresIn string // e.g., "1 hour"
}

// BuildPasswordResetEmail creates a reset message with text and HTML
// bodies. The caller sets To.
func BuildPasswordResetEmail(data PasswordResetEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Reset your %s password", data.SiteName),
		TextBody: buildPasswordResetText(data),
		HTMLBody: buildPasswordResetHTML(data),
	}
}

func buildPasswordResetText(data PasswordResetEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Someone asked to reset the password for your %s account.\n\n", data.SiteName)
	buf.WriteString("Choose a new password here:\n")
	buf.WriteString(data.Link + "\n\n")
	fmt.Fprintf(&buf, "This link expires in %s and works once.\n\n", data.ExpiresIn)
	buf.WriteString("If you did not ask for this, you can ignore this email.\n")
	return buf.String()
}

var passwordResetHTML = template.Must(template.New("password_reset").Parse(passwordResetHTMLTemplate))

func buildPasswordResetHTML(data PasswordResetEmailData) string {
	var buf bytes.Buffer
	_ = passwordResetHTML.Execute(&buf, data)
	return buf.String()
}

const passwordResetHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Reset your password</title>
</head>
<body style="margin: 0; padding: 40px 20px; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <div style="max-width: 480px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; padding: 32px;">
    <h1 style="margin: 0 0 24px; font-size: 22px; color: #4f46e5;">{{.SiteName}}</h1>
    <p style="font-size: 16px; color: #374151;">Someone asked to reset the password for your account.</p>
    <p style="text-align: center; margin: 32px 0;">
      <a href="{{.Link}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; border-radius: 6px;">Choose a new password</a>
    </p>
    <p style="font-size: 13px; color: #9ca3af;">This link expires in {{.ExpiresIn}} and works once. If you did not ask for this, you can ignore this email.</p>
  </div>
</body>
</html>`
