// Package extract turns parsed mailbox messages into order records. Each
// supported notification template has its own Extractor; the registry picks
// the first one whose signature matches the message.
package extract

import (
	"errors"

	"github.com/jurko22/xml-import/internal/mailbox"
	"github.com/jurko22/xml-import/internal/models"
)

// ErrNoMatch means the message matched an extractor's signature but lacked
// one or more required fields. It marks a validation rejection, not a
// failure.
var ErrNoMatch = errors.New("message does not match order template")

// Extractor recognizes one notification template.
type Extractor interface {
	// Name identifies the template, for logging and events.
	Name() string
	// Match reports whether the message carries this template's signature.
	Match(msg *mailbox.Message) bool
	// Extract pulls the order fields out of a matched message. Returns
	// ErrNoMatch when a required field is missing.
	Extract(msg *mailbox.Message) (*models.Order, error)
}

// Registry dispatches messages to the first matching extractor.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a registry over the given extractors, tried in order
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Extract runs the first matching extractor against the message. ok is false
// when no extractor matched or the matched template rejected the message.
func (r *Registry) Extract(msg *mailbox.Message) (order *models.Order, name string, ok bool) {
	for _, e := range r.extractors {
		if !e.Match(msg) {
			continue
		}

		order, err := e.Extract(msg)
		if err != nil {
			return nil, e.Name(), false
		}
		return order, e.Name(), true
	}
	return nil, "", false
}
