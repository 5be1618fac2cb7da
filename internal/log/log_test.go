package log

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)
	return &buf
}

func TestLog_WritesFormattedEntry(t *testing.T) {
	buf := withBuffer(t)

	Info(CatConsole, "submitted", "length", 8)

	out := buf.String()
	require.Contains(t, out, "[INFO] [console] submitted length=8")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestLog_OddFieldCount(t *testing.T) {
	buf := withBuffer(t)
	Warn(CatInput, "orphan", "key")
	require.Contains(t, buf.String(), "key=<missing>")
}

func TestLog_MinLevelFilters(t *testing.T) {
	buf := withBuffer(t)
	SetMinLevel(LevelWarn)

	Debug(CatUI, "hidden")
	Error(CatUI, "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestLog_Disabled(t *testing.T) {
	buf := withBuffer(t)
	SetEnabled(false)
	Error(CatUI, "nothing")
	require.Empty(t, buf.String())
}

func TestErrorErr_AppendsError(t *testing.T) {
	buf := withBuffer(t)
	ErrorErr(CatHistory, "append failed", errors.New("disk full"))
	ErrorErr(CatHistory, "nil error", nil)

	require.Contains(t, buf.String(), "error=disk full")
	require.Contains(t, buf.String(), "error=<nil>")
}

func TestRecent_ReturnsNewestWindow(t *testing.T) {
	withBuffer(t)
	Info(CatUI, "one")
	Info(CatUI, "two")
	Info(CatUI, "three")

	recent := Recent(2)
	require.Len(t, recent, 2)
	require.Equal(t, "two", recent[0].Message)
	require.Equal(t, "three", recent[1].Message)

	ClearBuffer()
	require.Empty(t, Recent(10))
}

func TestNewListener_ReceivesEntries(t *testing.T) {
	withBuffer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatConfig, "reloaded")

	done := make(chan LogEvent, 1)
	go func() {
		if ev, ok := listener.Listen()().(LogEvent); ok {
			done <- ev
		}
	}()

	select {
	case ev := <-done:
		require.Equal(t, "reloaded", ev.Payload.Message)
		require.Equal(t, CatConfig, ev.Payload.Category)
	case <-time.After(time.Second):
		require.Fail(t, "no log event received")
	}
}

func TestNoLogger_IsSafe(t *testing.T) {
	Reset()
	require.NotPanics(t, func() { Info(CatUI, "dropped") })
	require.Nil(t, NewListener(context.Background()))
	require.Nil(t, Recent(5))
}
