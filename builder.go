package blockdn

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// Builder accumulates client configuration. Setters return an updated
// copy, so a Builder can be passed around and forked freely; Build is
// the only way to obtain a Client, and the Client cannot be
// reconfigured afterwards.
type Builder struct {
	endpoint Endpoint
	timeout  time.Duration
}

// NewBuilder returns a Builder pointing at BlockDNOrg with a one second
// request timeout.
func NewBuilder() Builder {
	return Builder{
		endpoint: BlockDNOrg,
		timeout:  time.Second,
	}
}

// Endpoint sets the server to query.
func (b Builder) Endpoint(endpoint Endpoint) Builder {
	b.endpoint = endpoint
	return b
}

// Timeout sets how long the server has to respond to a single request.
func (b Builder) Timeout(timeout time.Duration) Builder {
	b.timeout = timeout
	return b
}

// Build creates the Client described by the accumulated configuration.
func (b Builder) Build() *Client {
	return &Client{
		endpoint: b.endpoint,
		timeout:  b.timeout,
		http:     resty.New().SetTimeout(b.timeout),
	}
}
