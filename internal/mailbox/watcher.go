package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/jurko22/xml-import/config"
	"github.com/jurko22/xml-import/internal/util"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"go.uber.org/zap"
)

// Message is one parsed mailbox message.
type Message struct {
	Subject string `json:"subject"`
	From    string `json:"from"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Handler processes one message. Messages are delivered serially in mailbox
// order.
type Handler func(ctx context.Context, msg *Message)

// Watcher keeps an IMAP connection open and hands every newly arrived
// message to a handler.
type Watcher struct {
	cfg    config.MailboxConfig
	logger *zap.Logger
}

// NewWatcher creates a new mailbox watcher
func NewWatcher(cfg config.MailboxConfig) *Watcher {
	return &Watcher{
		cfg:    cfg,
		logger: util.GetLogger(),
	}
}

// Run connects, selects the configured folder and IDLE-waits for new mail
// until the context is cancelled. Connection and login failures are fatal.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	addr := fmt.Sprintf("%s:%d", w.cfg.Host, w.cfg.Port)

	var tlsConfig *tls.Config
	if w.cfg.InsecureTLS {
		// Scoped to this dial only, never a process-wide setting.
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c, err := client.DialTLS(addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to mailbox %s: %w", addr, err)
	}
	defer c.Logout()

	if err := c.Login(w.cfg.User, w.cfg.Password); err != nil {
		return fmt.Errorf("failed to login to mailbox: %w", err)
	}

	mbox, err := c.Select(w.cfg.Folder, false)
	if err != nil {
		return fmt.Errorf("failed to select folder %s: %w", w.cfg.Folder, err)
	}

	w.logger.Info("Monitoring mailbox for new messages",
		zap.String("host", w.cfg.Host),
		zap.String("folder", w.cfg.Folder),
		zap.Uint32("messages", mbox.Messages))

	lastSeen := mbox.Messages
	updates := make(chan client.Update, 16)
	c.Updates = updates

	for {
		stop := make(chan struct{})
		idleDone := make(chan error, 1)
		go func() {
			idleDone <- c.Idle(stop, nil)
		}()

		var total uint32
	idle:
		for {
			select {
			case <-ctx.Done():
				close(stop)
				<-idleDone
				return ctx.Err()
			case err := <-idleDone:
				if err != nil {
					return fmt.Errorf("mailbox idle failed: %w", err)
				}
				// Server ended the IDLE session; start a new one.
				break idle
			case update := <-updates:
				mu, ok := update.(*client.MailboxUpdate)
				if !ok || mu.Mailbox.Messages <= lastSeen {
					continue
				}
				total = mu.Mailbox.Messages
				close(stop)
				<-idleDone
				break idle
			}
		}

		if total > lastSeen {
			if err := w.fetchRange(ctx, c, lastSeen+1, total, handler); err != nil {
				w.logger.Error("Failed to fetch new messages", zap.Error(err))
			}
			lastSeen = total
		}
	}
}

// fetchRange fetches messages in a sequence range and feeds them to the
// handler one at a time.
func (w *Watcher) fetchRange(ctx context.Context, c *client.Client, from, to uint32, handler Handler) error {
	seqset := new(imap.SeqSet)
	seqset.AddRange(from, to)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			w.logger.Warn("Fetched message without body", zap.Uint32("seq", msg.SeqNum))
			continue
		}

		parsed, err := parseMessage(body)
		if err != nil {
			w.logger.Error("Failed to parse message",
				zap.Uint32("seq", msg.SeqNum),
				zap.Error(err))
			continue
		}

		w.logger.Info("Message received",
			zap.String("subject", parsed.Subject),
			zap.String("from", parsed.From))
		handler(ctx, parsed)
	}

	return <-done
}
