package mail

import (
	"context"
	"testing"

	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTemplates(t *testing.T) {
	tpl := NewTemplates("https://app.example.com/")

	t.Run("verification", func(t *testing.T) {
		msg, err := tpl.Verification("jane@example.com", "jane doe", "abc123")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", msg.To)
		assert.Equal(t, "Verify your email address", msg.Subject)
		assert.Contains(t, msg.Text, "Hello Jane Doe")
		assert.Contains(t, msg.Text, "https://app.example.com/verify-email/abc123")
		assert.Contains(t, msg.HTML, `href="https://app.example.com/verify-email/abc123"`)
	})

	t.Run("reset", func(t *testing.T) {
		msg, err := tpl.PasswordReset("jane@example.com", "jane", "tok")
		require.NoError(t, err)
		assert.Contains(t, msg.Text, "/reset-password/tok")
		assert.Contains(t, msg.Text, "1 hour")
	})

	t.Run("html escapes user input", func(t *testing.T) {
		msg, err := tpl.TemporaryPassword("x@example.com", "<script>", "p<w>")
		require.NoError(t, err)
		assert.NotContains(t, msg.HTML, "<script>")
		assert.Contains(t, msg.HTML, "p&lt;w&gt;")
		assert.Contains(t, msg.Text, "https://app.example.com/login")
	})
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	err := m.Send(context.Background(), Message{To: "a@b.com", Subject: "Hi", Text: "body"})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "a@b.com", fields["to"])
	assert.Equal(t, "Hi", fields["subject"])

	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrNoRecipient)
}

func TestNew(t *testing.T) {
	t.Run("disabled falls back to log mailer", func(t *testing.T) {
		m, err := New(config.MailConfig{}, nil)
		require.NoError(t, err)
		assert.IsType(t, &LogMailer{}, m)
	})

	t.Run("enabled builds smtp mailer", func(t *testing.T) {
		m, err := New(config.MailConfig{
			Enabled:  true,
			Host:     "smtp.example.com",
			Port:     465,
			Username: "noreply@example.com",
			Password: "secret",
			UseSSL:   true,
		}, nil)
		require.NoError(t, err)
		smtp, ok := m.(*SMTPMailer)
		require.True(t, ok)
		assert.Equal(t, "noreply@example.com", smtp.from)
	})
}

func TestBuildMessage(t *testing.T) {
	_, err := buildMessage("not an address", Message{To: "a@b.com"})
	assert.Error(t, err)

	gm, err := buildMessage("noreply@example.com", Message{To: "a@b.com", Subject: "S", Text: "t", HTML: "<p>t</p>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"S"}, gm.GetGenHeader("Subject"))
}
