package mailer

import (
	"bytes"
	"html/template"
	"time"
)

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`<p>Hello {{.FirstName}},</p>
<p>Your training account has been created. Your employee id is <b>{{.EID}}</b>.</p>
{{if .Password}}<p>Your temporary password is <b>{{.Password}}</b>. Please change it after your first login.</p>{{end}}`))

	resetTmpl = template.Must(template.New("reset").Parse(`<p>Hello {{.FirstName}},</p>
<p>We received a request to reset your password. Use the link below before {{.ExpiresAt}}:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not ask for this, ignore this email.</p>`))
)

func WelcomeMessage(to, firstName, eid, password string) (Message, error) {
	var buf bytes.Buffer
	err := welcomeTmpl.Execute(&buf, map[string]string{
		"FirstName": firstName,
		"EID":       eid,
		"Password":  password,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{to}, Subject: "Welcome to the training platform", HTML: buf.String()}, nil
}

func PasswordResetMessage(to, firstName, link string, expiresAt time.Time) (Message, error) {
	var buf bytes.Buffer
	err := resetTmpl.Execute(&buf, map[string]string{
		"FirstName": firstName,
		"Link":      link,
		"ExpiresAt": expiresAt.UTC().Format(time.RFC1123),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{to}, Subject: "Reset your password", HTML: buf.String()}, nil
}
