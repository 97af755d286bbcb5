package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/angelmondragon/plantnet-backend/pkg/config"
	"github.com/angelmondragon/plantnet-backend/pkg/logger"
)

func TestNewFallsBackToLogMailer(t *testing.T) {
	sender, err := New(config.MailConfig{}, false, nil)
	require.NoError(t, err)
	_, ok := sender.(*LogMailer)
	assert.True(t, ok)
	assert.NoError(t, sender.Send(context.Background(), Message{To: "a@b.c", Subject: "s", Body: "b"}))
}

func TestNewRequiresRelayInProduction(t *testing.T) {
	sender, err := New(config.MailConfig{}, true, nil)
	require.Error(t, err)
	assert.Nil(t, sender)

	sender, err = New(config.MailConfig{Host: "smtp.example.com", From: "no-reply@example.com"}, true, nil)
	require.NoError(t, err)
	_, ok := sender.(*SMTP)
	assert.True(t, ok)
}

func TestLogMailerLogsBody(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	sender, err := New(config.MailConfig{}, false, logg)
	require.NoError(t, err)

	msg := Message{To: "ada@example.com", Subject: "Your OTP Code", Body: "Your OTP is 123456. It will expire in 5 minutes."}
	require.NoError(t, sender.Send(context.Background(), msg))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mail.logged", entry["message"])
	assert.Equal(t, "ada@example.com", entry["mail_to"])
	assert.Equal(t, msg.Body, entry["mail_body"])
}

func TestNewSMTPValidates(t *testing.T) {
	_, err := NewSMTP(config.MailConfig{Host: "smtp.example.com"})
	assert.Error(t, err, "from is required")

	_, err = NewSMTP(config.MailConfig{Host: "smtp.example.com", From: "no-reply@example.com", TLSPolicy: "sometimes"})
	assert.Error(t, err)

	sender, err := NewSMTP(config.MailConfig{
		Host:      "smtp.example.com",
		Port:      587,
		From:      "no-reply@example.com",
		Username:  "user",
		Password:  "pass",
		Timeout:   5 * time.Second,
		TLSPolicy: "opportunistic",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sender.opts)
}

func TestTLSPolicy(t *testing.T) {
	cases := map[string]mail.TLSPolicy{
		"":              mail.TLSMandatory,
		"Mandatory":     mail.TLSMandatory,
		"opportunistic": mail.TLSOpportunistic,
		"none":          mail.NoTLS,
	}
	for raw, want := range cases {
		got, err := tlsPolicy(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestBuildMessage(t *testing.T) {
	m, err := buildMessage("no-reply@example.com", Message{To: "buyer@example.com", Subject: "Your OTP Code", Body: "hi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Your OTP Code"}, m.GetGenHeader(mail.HeaderSubject))

	_, err = buildMessage("no-reply@example.com", Message{To: "not an address"})
	assert.Error(t, err)
}
