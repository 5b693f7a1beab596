// Package logifacebridge adapts logx.Logger onto
// github.com/joeycumines/logiface + github.com/joeycumines/stumpy, for
// services that want structured JSON logs instead of logx.DefaultLogger's
// plain-text output. It is optional: nothing in the core Beam packages
// imports it, mirroring the reference eventloop package's test-only use
// of logiface.
package logifacebridge

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/spiretrading/beam-sub006/logx"
)

// Bridge implements logx.Logger on top of a stumpy-backed
// logiface.Logger[*stumpy.Event].
type Bridge struct {
	logger *logiface.Logger[*stumpy.Event]
}

// New constructs a Bridge writing newline-delimited JSON to out (os.Stdout
// if nil), filtering at the given minimum logx.Level.
func New(out io.Writer, level logx.Level) *Bridge {
	if out == nil {
		out = os.Stdout
	}
	return &Bridge{
		logger: stumpy.L.New(
			stumpy.L.WithStumpy(stumpy.WithWriter(out)),
			stumpy.L.WithLevel(toLogifaceLevel(level)),
		),
	}
}

func toLogifaceLevel(level logx.Level) logiface.Level {
	switch level {
	case logx.LevelDebug:
		return logiface.LevelDebug
	case logx.LevelInfo:
		return logiface.LevelInformational
	case logx.LevelWarn:
		return logiface.LevelWarning
	case logx.LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

func (b *Bridge) Enabled(level logx.Level) bool {
	return b.logger.Build(toLogifaceLevel(level)).Enabled()
}

// Log emits entry through the underlying stumpy-backed logger, mapping
// logx.Entry's flat Fields map and Err onto logiface's field builder.
func (b *Bridge) Log(entry logx.Entry) {
	builder := b.logger.Build(toLogifaceLevel(entry.Level))
	if !builder.Enabled() {
		return
	}
	builder = builder.Field("category", entry.Category)
	if entry.RoutineID != 0 {
		builder = builder.Field("routine", entry.RoutineID)
	}
	for k, v := range entry.Fields {
		builder = builder.Any(k, v)
	}
	if entry.Err != nil {
		builder = builder.Err(entry.Err)
	}
	builder.Log(entry.Message)
}
