package dlog

import "github.com/rs/zerolog"

// ZerologLogger adapts an rs/zerolog.Logger to the dlog.Logger interface,
// for callers who want dispatchcore's lifecycle events folded into an
// existing structured-logging pipeline.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger wraps zl as a dlog.Logger.
func NewZerologLogger(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

func toZerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// IsEnabled reports whether level is enabled on the wrapped logger.
func (z *ZerologLogger) IsEnabled(level Level) bool {
	return z.zl.GetLevel() <= toZerologLevel(level)
}

// Log forwards entry to the wrapped zerolog.Logger.
func (z *ZerologLogger) Log(entry Entry) {
	evt := z.zl.WithLevel(toZerologLevel(entry.Level))
	if evt == nil {
		return
	}
	evt = evt.Str("category", entry.Category)
	if entry.Tag != 0 {
		evt = evt.Uint32("tag", entry.Tag)
	}
	if entry.SchedulerID != 0 {
		evt = evt.Uint64("scheduler", entry.SchedulerID)
	}
	if entry.TaskID != 0 {
		evt = evt.Uint64("task", entry.TaskID)
	}
	for k, v := range entry.Context {
		evt = evt.Interface(k, v)
	}
	if entry.Err != nil {
		evt = evt.Err(entry.Err)
	}
	if !entry.Timestamp.IsZero() {
		evt = evt.Time("ts", entry.Timestamp)
	}
	evt.Msg(entry.Message)
}
