package dom

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/go-drift/nodesync/pkg/lifecycle"
)

// Host is a document together with the lifecycle-aware tree operations
// that act on it.
type Host struct {
	document  *Node
	internals *Internals
	sync      *lifecycle.Synchronizer[*Node]
}

type hostConfig struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// HostOption configures NewHost.
type HostOption func(*hostConfig)

// WithLogger logs every subtree connect and disconnect at debug level.
func WithLogger(logger *zap.Logger) HostOption {
	return func(c *hostConfig) {
		c.logger = logger
	}
}

// WithRegisterer counts subtree calls in nodesync_tree_calls_total.
func WithRegisterer(reg prometheus.Registerer) HostOption {
	return func(c *hostConfig) {
		c.registerer = reg
	}
}

// NewHost creates a host around a fresh document.
func NewHost(opts ...HostOption) (*Host, error) {
	var cfg hostConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	internals := NewInternals()
	var dispatcher lifecycle.Dispatcher[*Node] = internals
	if cfg.registerer != nil {
		instrumented, err := lifecycle.NewInstrumentedDispatcher(dispatcher, cfg.registerer)
		if err != nil {
			return nil, err
		}
		dispatcher = instrumented
	}
	if cfg.logger != nil {
		dispatcher = lifecycle.NewLoggingDispatcher(dispatcher, cfg.logger)
	}

	return &Host{
		document:  NewDocument(),
		internals: internals,
		sync:      lifecycle.New[*Node](Oracle{}, dispatcher, Primitives()),
	}, nil
}

// Document returns the host's live root.
func (h *Host) Document() *Node { return h.document }

// Internals returns the dispatcher that delivers callbacks.
func (h *Host) Internals() *Internals { return h.internals }

// Before inserts items as previous siblings of target.
func (h *Host) Before(target *Node, items ...Item) error {
	return h.sync.Before(target, items...)
}

// After inserts items as next siblings of target.
func (h *Host) After(target *Node, items ...Item) error {
	return h.sync.After(target, items...)
}

// ReplaceWith replaces target with items.
func (h *Host) ReplaceWith(target *Node, items ...Item) error {
	return h.sync.ReplaceWith(target, items...)
}

// Remove detaches target from its parent.
func (h *Host) Remove(target *Node) error {
	return h.sync.Remove(target)
}

// Append inserts items as the last children of parent.
func (h *Host) Append(parent *Node, items ...Item) error {
	return h.sync.Append(parent, items...)
}

// Prepend inserts items as the first children of parent.
func (h *Host) Prepend(parent *Node, items ...Item) error {
	return h.sync.Prepend(parent, items...)
}
