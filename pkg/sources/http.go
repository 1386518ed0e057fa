package sources

import (
	"context"

	"github.com/agentstation/tallycheck/internal/transport"
)

// HTTP downloads a document.
type HTTP struct {
	id     ID
	url    string
	client *transport.Client
}

// NewHTTP creates an HTTP source. A nil client gets a default client with
// its own cache; share one client between sources to share downloads.
func NewHTTP(id ID, url string, client *transport.Client) *HTTP {
	if client == nil {
		client = transport.New()
	}
	return &HTTP{id: id, url: url, client: client}
}

// ID returns the source role.
func (h *HTTP) ID() ID { return h.id }

// URL returns the document URL.
func (h *HTTP) URL() string { return h.url }

// String describes the source.
func (h *HTTP) String() string { return h.url }

// Load downloads the document.
func (h *HTTP) Load(ctx context.Context) ([]byte, error) {
	return h.client.Get(ctx, h.url)
}
