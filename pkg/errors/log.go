package errors

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogHandler is an ErrorHandler that writes errors through a zap logger.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger receives the entries. When nil a console logger on stderr is used.
	Logger *zap.Logger
}

var (
	stderrOnce   sync.Once
	stderrLogger *zap.Logger
)

func defaultLogger() *zap.Logger {
	stderrOnce.Do(func() {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), zap.DebugLevel)
		stderrLogger = zap.New(core).Named("nodesync")
	})
	return stderrLogger
}

func (h *LogHandler) logger() *zap.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return defaultLogger()
}

// HandleError logs a TreeError.
func (h *LogHandler) HandleError(err *TreeError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Node != "" {
		fields = append(fields, zap.String("node", err.Node))
	}
	if h.Verbose && err.NodeID != "" {
		fields = append(fields, zap.String("node_id", err.NodeID))
	}
	if len(err.Scope) > 0 {
		fields = append(fields, zap.Strings("scope", err.Scope))
	}
	h.logger().Error("tree error", fields...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("panic", fields...)
}

// HandleReactionError logs a ReactionError.
func (h *LogHandler) HandleReactionError(err *ReactionError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("reaction", err.Reaction),
		zap.String("node", err.Node),
	}
	if err.Err != nil {
		fields = append(fields, zap.Error(err.Err))
	} else {
		fields = append(fields, zap.Any("recovered", err.Recovered))
	}
	if h.Verbose {
		if err.NodeID != "" {
			fields = append(fields, zap.String("node_id", err.NodeID))
		}
		if err.StackTrace != "" {
			fields = append(fields, zap.String("stack", err.StackTrace))
		}
	}
	h.logger().Error("reaction failed", fields...)
}
