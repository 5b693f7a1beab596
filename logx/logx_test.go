package logx_test

import (
	"strings"
	"testing"

	"github.com/spiretrading/beam-sub006/logx"
	"github.com/stretchr/testify/require"
)

type stringWriter struct{ sb strings.Builder }

func (w *stringWriter) WriteString(s string) (int, error) { return w.sb.WriteString(s) }

func TestDefaultLoggerFiltersByLevel(t *testing.T) {
	w := &stringWriter{}
	l := logx.NewDefaultLogger(w, logx.LevelWarn)

	l.Log(logx.Entry{Level: logx.LevelInfo, Category: "test", Message: "ignored"})
	require.Empty(t, w.sb.String())

	l.Log(logx.Entry{Level: logx.LevelError, Category: "test", Message: "boom"})
	require.Contains(t, w.sb.String(), "boom")
	require.Contains(t, w.sb.String(), "ERROR")
}

func TestNoOpLoggerDiscardsEverything(t *testing.T) {
	l := logx.NoOp()
	require.False(t, l.Enabled(logx.LevelError))
	l.Log(logx.Entry{Level: logx.LevelError, Message: "should not panic"})
}
