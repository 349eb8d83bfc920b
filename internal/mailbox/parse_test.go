package mailbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plainMessage = "From: Shop <shop@example.com>\r\n" +
	"To: orders@example.com\r\n" +
	"Subject: Objednavka c. 778\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Kod objednavky: 778\r\n"

const multipartMessage = "From: Shop <shop@example.com>\r\n" +
	"To: orders@example.com\r\n" +
	"Subject: Objednavka c. 779\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=frontier\r\n" +
	"\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"plain body\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>html body</p>\r\n" +
	"--frontier--\r\n"

func TestParsePlainMessage(t *testing.T) {
	msg, err := parseMessage(strings.NewReader(plainMessage))
	require.NoError(t, err)

	assert.Equal(t, "Objednavka c. 778", msg.Subject)
	assert.Contains(t, msg.From, "shop@example.com")
	assert.Contains(t, msg.Text, "Kod objednavky: 778")
	assert.Empty(t, msg.HTML)
}

func TestParseMultipartMessage(t *testing.T) {
	msg, err := parseMessage(strings.NewReader(multipartMessage))
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "plain body")
	assert.Contains(t, msg.HTML, "<p>html body</p>")
}

func TestParseGarbage(t *testing.T) {
	_, err := parseMessage(strings.NewReader("\x00\x01\x02"))
	assert.Error(t, err)
}
