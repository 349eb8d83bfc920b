package mailbox

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"
)

// parseMessage reads a raw RFC 822 message into subject, sender and the
// plain-text and HTML bodies.
func parseMessage(r io.Reader) (*Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}

	msg := &Message{}

	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = subject
	}
	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		msg.From = addrs[0].String()
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read message part: %w", err)
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read message body: %w", err)
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			msg.Text += string(body)
		case strings.HasPrefix(contentType, "text/html"):
			msg.HTML += string(body)
		}
	}

	return msg, nil
}
