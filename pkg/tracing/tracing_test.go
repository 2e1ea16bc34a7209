package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
)

func TestStartSpanBeforeInit(t *testing.T) {
	// Without a provider the global tracer is a no-op, but spans must still
	// be usable.
	ctx, span := StartSpan(context.Background(), "noop")
	require.NotNil(t, ctx)
	require.NotNil(t, span)

	span.WithAttributes(map[string]string{"pid": "1"})
	EndSpan(span, nil)
}

func TestEndSpanNil(t *testing.T) {
	assert.NotPanics(t, func() { EndSpan(nil, errors.New("ignored")) })
}

func TestInitWithExporter(t *testing.T) {
	var buf bytes.Buffer
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(&buf))
	require.NoError(t, err)

	require.NoError(t, InitWithExporter("microkern-test", "0.0.1", exporter))

	_, span := StartSpan(context.Background(), "syscall.dispatch")
	span.WithAttributes(map[string]string{"syscall": "get_pid"})
	EndSpan(span, nil)

	assert.NotZero(t, buf.Len())
}

func TestInitWithNilExporter(t *testing.T) {
	assert.NoError(t, InitWithExporter("microkern-test", "0.0.1", nil))
}
