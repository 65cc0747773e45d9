package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	texttemplate "text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

var funcMap = map[string]any{
	"title": func(s string) string { return titleCaser.String(strings.TrimSpace(s)) },
}

type mailTemplate struct {
	subject string
	text    *texttemplate.Template
	html    *template.Template
}

func newTemplate(name, subject, text, html string) mailTemplate {
	return mailTemplate{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New(name).Funcs(funcMap).Parse(text)),
		html:    template.Must(template.New(name).Funcs(funcMap).Parse(html)),
	}
}

func (t mailTemplate) render(to string, data any) (Message, error) {
	var text, html bytes.Buffer
	if err := t.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render text body: %w", err)
	}
	if err := t.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render html body: %w", err)
	}
	return Message{To: to, Subject: t.subject, Text: text.String(), HTML: html.String()}, nil
}

var (
	verificationTemplate = newTemplate("verification",
		"Verify your email address",
		`Hello {{title .Username}},

Please confirm your email address by opening the link below:
{{.Link}}

The link expires in 24 hours.
`,
		`<p>Hello {{title .Username}},</p>
<p>Please confirm your email address by clicking the link below:</p>
<p><a href="{{.Link}}">Verify email</a></p>
<p>The link expires in 24 hours.</p>
`)

	resetTemplate = newTemplate("reset",
		"Password reset instructions",
		`Hello {{title .Username}},

We received a request to reset your password. Open the link below to choose a new one:
{{.Link}}

The link expires in 1 hour. If you did not request this, ignore this email.
`,
		`<p>Hello {{title .Username}},</p>
<p>We received a request to reset your password.</p>
<p><a href="{{.Link}}">Choose a new password</a></p>
<p>The link expires in 1 hour. If you did not request this, ignore this email.</p>
`)

	temporaryPasswordTemplate = newTemplate("temporary-password",
		"Your temporary password",
		`Hello {{title .Username}},

An administrator created an account for you. Your temporary password is:
{{.Password}}

Please sign in at {{.Link}} and change it.
`,
		`<p>Hello {{title .Username}},</p>
<p>An administrator created an account for you. Your temporary password is:</p>
<p><code>{{.Password}}</code></p>
<p>Please <a href="{{.Link}}">sign in</a> and change it.</p>
`)
)

// Templates renders the application's messages with links into the front end
type Templates struct {
	baseURL string
}

// NewTemplates creates Templates linking to frontendURL
func NewTemplates(frontendURL string) *Templates {
	return &Templates{baseURL: strings.TrimRight(frontendURL, "/")}
}

func (t *Templates) link(path, token string) string {
	if token == "" {
		return t.baseURL + path
	}
	return t.baseURL + path + "/" + url.PathEscape(token)
}

// Verification renders the email verification message
func (t *Templates) Verification(to, username, token string) (Message, error) {
	return verificationTemplate.render(to, map[string]string{
		"Username": username,
		"Link":     t.link("/verify-email", token),
	})
}

// PasswordReset renders the password reset message
func (t *Templates) PasswordReset(to, username, token string) (Message, error) {
	return resetTemplate.render(to, map[string]string{
		"Username": username,
		"Link":     t.link("/reset-password", token),
	})
}

// TemporaryPassword renders the message sent with an admin-issued password
func (t *Templates) TemporaryPassword(to, username, password string) (Message, error) {
	return temporaryPasswordTemplate.render(to, map[string]string{
		"Username": username,
		"Password": password,
		"Link":     t.link("/login", ""),
	})
}
