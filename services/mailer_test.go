package services

import (
	"bytes"
	"context"
	"testing"

	"finance-server/confs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Configured(t *testing.T) {
	assert.False(t, NewSMTPMailer(confs.MailConfig{Server: "smtp.example.com"}).Configured())
	assert.True(t, NewSMTPMailer(confs.MailConfig{
		Server: "smtp.example.com", Username: "bot", Password: "pw",
	}).Configured())
}

func TestSMTPMailer_SendWithoutConfig(t *testing.T) {
	err := NewSMTPMailer(confs.MailConfig{}).SendPasswordReset(context.Background(), "a@b.c", "alice", "http://x")
	assert.Error(t, err)
}

func TestSMTPMailer_ResetMessage(t *testing.T) {
	m := NewSMTPMailer(confs.MailConfig{
		Server: "smtp.example.com", Port: 587, Username: "bot@example.com", Password: "pw",
	})
	msg := m.resetMessage("alice@example.com", "alice", "https://app.example.com/reset-password/abc123")

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "To: alice@example.com")
	assert.Contains(t, raw, "From: bot@example.com")
	assert.Contains(t, raw, "Subject: Reset your Personal Finance password")
	assert.Contains(t, raw, "reset-password/abc123")
	assert.Equal(t, []string{"alice@example.com"}, msg.GetHeader("To"))
}
