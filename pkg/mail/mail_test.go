package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequiresHost(t *testing.T) {
	err := To("a@example.com").UseConfig(SMTP{}).Send()
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendRequiresRecipients(t *testing.T) {
	err := To().UseConfig(SMTP{Host: "smtp.test", From: "x@example.com"}).Send()
	assert.Error(t, err)
}

func TestSendUsesTransport(t *testing.T) {
	cfg := SMTP{Host: "smtp.test", Port: "2525", From: "shop@example.com"}
	var gotTo []string
	var gotRaw string
	err := To("a@example.com", "b@example.com").
		UseConfig(cfg).
		Via(func(c SMTP, to []string, raw []byte) error {
			assert.Equal(t, "smtp.test", c.Host)
			gotTo, gotRaw = to, string(raw)
			return nil
		}).
		Subject("Hello").
		Body("<p>hi</p>").
		Send()
	require.NoError(t, err)

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, gotTo)
	assert.Contains(t, gotRaw, "From: shop@example.com\r\n")
	assert.Contains(t, gotRaw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, gotRaw, "Content-Type: text/html")
	assert.Contains(t, gotRaw, "\r\n\r\n<p>hi</p>")
}

func TestTextBody(t *testing.T) {
	raw := string(To("a@example.com").UseConfig(SMTP{From: "s@example.com", FromName: "Shop"}).Text("plain").Raw())
	assert.Contains(t, raw, "From: Shop <s@example.com>")
	assert.Contains(t, raw, "Content-Type: text/plain")
}
