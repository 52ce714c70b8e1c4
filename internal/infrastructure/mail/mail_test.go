package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposer_EmailVerification(t *testing.T) {
	composer := NewComposer("ProjectPilot", "https://projectpilot.com")

	content, err := composer.EmailVerification("alice", "http://localhost:3000/verify-email/abc123")
	require.NoError(t, err)

	assert.Contains(t, content.HTML, "http://localhost:3000/verify-email/abc123")
	assert.Contains(t, content.Text, "alice")
}

func TestComposer_ForgotPassword(t *testing.T) {
	composer := NewComposer("ProjectPilot", "https://projectpilot.com")

	content, err := composer.ForgotPassword("bob", "http://localhost:3000/reset-password/xyz")
	require.NoError(t, err)

	assert.Contains(t, content.HTML, "http://localhost:3000/reset-password/xyz")
	assert.Contains(t, content.Text, "To choose a new password")
}

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("ProjectPilot <no-reply@projectpilot.com>", "alice@example.com", "Hello", Content{
		HTML: "<p>hi</p>",
		Text: "hi",
	})
	require.NoError(t, err)

	body := string(msg)
	assert.True(t, strings.HasPrefix(body, "From: ProjectPilot <no-reply@projectpilot.com>\r\n"))
	assert.Contains(t, body, "To: alice@example.com\r\n")
	assert.Contains(t, body, "Subject: Hello\r\n")
	assert.Contains(t, body, "Content-Type: multipart/alternative; boundary=")
	assert.Less(t, strings.Index(body, "text/plain"), strings.Index(body, "text/html"))
}

func TestEnvelopeAddress(t *testing.T) {
	assert.Equal(t, "no-reply@projectpilot.com", envelopeAddress("ProjectPilot <no-reply@projectpilot.com>"))
	assert.Equal(t, "plain@example.com", envelopeAddress("plain@example.com"))
}

func TestLogSender_Send(t *testing.T) {
	assert.NoError(t, NewLogSender().Send(t.Context(), "a@example.com", "subject", Content{Text: "x"}))
}
