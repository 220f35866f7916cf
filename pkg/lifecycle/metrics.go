package lifecycle

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentedDispatcher counts subtree calls in
// nodesync_tree_calls_total{kind} before forwarding them.
type InstrumentedDispatcher[N any] struct {
	next       Dispatcher[N]
	connect    prometheus.Counter
	disconnect prometheus.Counter
}

// NewInstrumentedDispatcher wraps next and registers its counter with reg.
// If an identical collector is already registered it is reused, so several
// dispatchers may share one registry.
func NewInstrumentedDispatcher[N any](next Dispatcher[N], reg prometheus.Registerer) (*InstrumentedDispatcher[N], error) {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nodesync",
		Name:      "tree_calls_total",
		Help:      "Subtree connect and disconnect calls issued by tree operations.",
	}, []string{"kind"})

	if reg != nil {
		if err := reg.Register(calls); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, err
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, err
			}
			calls = existing
		}
	}

	return &InstrumentedDispatcher[N]{
		next:       next,
		connect:    calls.WithLabelValues("connect"),
		disconnect: calls.WithLabelValues("disconnect"),
	}, nil
}

func (d *InstrumentedDispatcher[N]) ConnectTree(n N) {
	d.connect.Inc()
	d.next.ConnectTree(n)
}

func (d *InstrumentedDispatcher[N]) DisconnectTree(n N) {
	d.disconnect.Inc()
	d.next.DisconnectTree(n)
}

// ConnectCounter returns the counter behind connect calls.
func (d *InstrumentedDispatcher[N]) ConnectCounter() prometheus.Counter {
	return d.connect
}

// DisconnectCounter returns the counter behind disconnect calls.
func (d *InstrumentedDispatcher[N]) DisconnectCounter() prometheus.Counter {
	return d.disconnect
}
