package telemetry_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/scribe/internal/adapters/telemetry"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/scribe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
	var _ sdktrace.SpanProcessor = (*telemetry.LogBridge)(nil)
}

func TestOTelTracer_RecordsAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := telemetry.NewOTelTracer(provider)

	_, span := tracer.Start(context.Background(), "commit", ports.WithAttribute("commit.key", "alice.near/widget/Counter"))
	span.SetAttribute("commit.deposit", big.NewInt(5000))
	span.SetAttribute("commit.bytes", int64(42))
	span.RecordError(errors.New("wallet rejected"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	got := ended[0]
	assert.Equal(t, "commit", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "wallet rejected", got.Status().Description)
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("commit.key", "alice.near/widget/Counter"),
		attribute.String("commit.deposit", "5000"),
		attribute.Int64("commit.bytes", 42),
	}, got.Attributes())
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	assert.NotNil(t, tracer)

	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span")
	assert.Equal(t, ctx, got)
	assert.NotNil(t, span)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}

func TestLogBridge(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(log)))
	tracer := telemetry.NewOTelTracer(provider)

	log.EXPECT().Info(gomock.Cond(func(msg string) bool {
		return assert.Contains(t, msg, "span commit finished") &&
			assert.Contains(t, msg, "commit.outcome=committed")
	}))
	_, span := tracer.Start(context.Background(), "commit")
	span.SetAttribute("commit.outcome", "committed")
	span.End()

	log.EXPECT().Warn(gomock.Cond(func(msg string) bool {
		return assert.Contains(t, msg, ": boom")
	}))
	_, span = tracer.Start(context.Background(), "commit")
	span.RecordError(errors.New("boom"))
	span.End()
}
