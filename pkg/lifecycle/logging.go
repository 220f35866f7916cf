package lifecycle

import (
	"fmt"

	"go.uber.org/zap"
)

// LoggingDispatcher logs every subtree call before forwarding it.
type LoggingDispatcher[N any] struct {
	next   Dispatcher[N]
	logger *zap.Logger
}

// NewLoggingDispatcher wraps next. A nil logger disables logging.
func NewLoggingDispatcher[N any](next Dispatcher[N], logger *zap.Logger) *LoggingDispatcher[N] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingDispatcher[N]{next: next, logger: logger}
}

func (d *LoggingDispatcher[N]) ConnectTree(n N) {
	d.logger.Debug("connect tree", nodeField(n))
	d.next.ConnectTree(n)
}

func (d *LoggingDispatcher[N]) DisconnectTree(n N) {
	d.logger.Debug("disconnect tree", nodeField(n))
	d.next.DisconnectTree(n)
}

func nodeField(n any) zap.Field {
	if s, ok := n.(fmt.Stringer); ok {
		return zap.Stringer("node", s)
	}
	return zap.String("node", fmt.Sprintf("%v", n))
}
