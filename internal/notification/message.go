// Package notification renders and delivers user emails.
package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/dtroode/quizhub-server/internal/model"
)

var (
	otpTemplate = template.Must(template.New("otp").Parse(
		`<p>Your QuizHub verification code is <strong>{{.Code}}</strong>.</p>` +
			`<p>It expires in {{.Minutes}} minutes.</p>`))

	resetTemplate = template.Must(template.New("reset").Parse(
		`<p>We received a request to reset your QuizHub password.</p>` +
			`<p><a href="{{.Link}}">Reset your password</a></p>` +
			`<p>The link expires in {{.Minutes}} minutes. If you did not ask for it, ignore this email.</p>`))
)

// OTPMessage builds the verification code email.
func OTPMessage(to, code string, ttl time.Duration) (model.Message, error) {
	body, err := render(otpTemplate, struct {
		Code    string
		Minutes int
	}{code, int(ttl.Minutes())})
	if err != nil {
		return model.Message{}, err
	}
	return model.Message{To: to, Subject: "Your verification code", HTML: body}, nil
}

// ResetPasswordMessage builds the password reset email.
func ResetPasswordMessage(to, link string, ttl time.Duration) (model.Message, error) {
	body, err := render(resetTemplate, struct {
		Link    string
		Minutes int
	}{link, int(ttl.Minutes())})
	if err != nil {
		return model.Message{}, err
	}
	return model.Message{To: to, Subject: "Reset your password", HTML: body}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func buildMsg(from string, msg model.Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}
