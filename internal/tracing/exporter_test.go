package tracing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	_, err = os.Stat(tracePath)
	require.NoError(t, err, "trace file should be created with parent dirs")
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()), "second shutdown is a no-op")
}

func TestFileExporter_WritesJSONL(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	start := time.Now()
	stubs := []tracetest.SpanStub{
		{
			Name:      SpanExecute,
			StartTime: start,
			EndTime:   start.Add(20 * time.Millisecond),
			Status:    sdktrace.Status{Code: codes.Ok},
			Attributes: []attribute.KeyValue{
				attribute.String(AttrSource, "print 1"),
				attribute.Int(AttrOutputCount, 1),
			},
			Events: []sdktrace.Event{{Name: EventHistoryRecorded, Time: start}},
		},
		{
			Name:      SpanPrefixFunction + "print",
			StartTime: start,
			EndTime:   start.Add(time.Millisecond),
			Status:    sdktrace.Status{Code: codes.Error, Description: "boom"},
		},
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), tracetest.SpanStubs(stubs).Snapshots()))
	require.NoError(t, exporter.ExportSpans(context.Background(), nil))
	require.NoError(t, exporter.Shutdown(context.Background()))

	f, err := os.Open(tracePath)
	require.NoError(t, err)
	defer f.Close()

	dec := json.NewDecoder(f)
	var first, second SpanRecord
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	require.Equal(t, SpanExecute, first.Name)
	require.Equal(t, "OK", first.Status)
	require.InDelta(t, 20.0, first.DurationMs, 0.001)
	require.Equal(t, "print 1", first.Attributes[AttrSource])
	require.EqualValues(t, 1, first.Attributes[AttrOutputCount])
	require.Equal(t, []string{EventHistoryRecorded}, first.Events)

	require.Equal(t, "ERROR", second.Status)
	require.Equal(t, "boom", second.StatusMsg)
	require.Empty(t, second.Attributes)
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))

	stub := tracetest.SpanStub{Name: "late"}
	require.Error(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
}
