package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent  []*gomail.Message
	err   error
	block chan struct{}
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.block != nil {
		<-f.block
	}
	f.sent = append(f.sent, m...)
	return f.err
}

func TestRenderTwoFactor(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 10, 5, 0, time.UTC)

	body, err := renderTwoFactor("012345", expires, nil)
	require.NoError(t, err)
	require.Contains(t, body, `<div class="code">012345</div>`)
	require.Contains(t, body, "12:10:05")

	paris, err := time.LoadLocation("Europe/Paris")
	if err == nil {
		body, err = renderTwoFactor("012345", expires, paris)
		require.NoError(t, err)
		require.Contains(t, body, "13:10:05")
	}
}

func TestSMTPMailerSends(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"})
	require.NoError(t, err)
	fake := &fakeSender{}
	m.dialer = fake

	expires := time.Date(2026, 3, 1, 12, 10, 0, 0, time.UTC)
	require.NoError(t, m.SendTwoFactorCode(context.Background(), "alice@example.com", "654321", expires))

	require.Len(t, fake.sent, 1)
	msg := fake.sent[0]
	require.Equal(t, []string{"alice@example.com"}, msg.GetHeader("To"))
	require.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))
	require.Equal(t, []string{twoFactorSubject}, msg.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err = msg.WriteTo(&raw)
	require.NoError(t, err)
	require.True(t, strings.Contains(raw.String(), "654321"))
}

func TestSMTPMailerErrors(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{From: "a@example.com"})
	require.Error(t, err)
	_, err = NewSMTPMailer(SMTPConfig{Host: "smtp.example.com"})
	require.Error(t, err)

	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"})
	require.NoError(t, err)

	t.Run("relay failure is wrapped", func(t *testing.T) {
		relayErr := errors.New("535 authentication failed")
		m.dialer = &fakeSender{err: relayErr}
		err := m.SendTwoFactorCode(context.Background(), "a@example.com", "000000", time.Now())
		require.ErrorIs(t, err, relayErr)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)
		m.dialer = &fakeSender{block: block}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := m.SendTwoFactorCode(ctx, "a@example.com", "000000", time.Now())
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestLogMailer(t *testing.T) {
	require.NoError(t, LogMailer{}.SendTwoFactorCode(context.Background(), "a@example.com", "123456", time.Now()))
}
