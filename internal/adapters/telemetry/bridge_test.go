package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newBridgedTracer(t *testing.T, renderer ports.Renderer) trace.Tracer {
	t.Helper()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp.Tracer("test")
}

func TestBridge_ForwardsLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var spanID string
	gomock.InOrder(
		renderer.EXPECT().OnStepStart(gomock.Any()).Do(func(step ports.StepStart) {
			assert.Equal(t, "build-engine", step.Name)
			assert.Empty(t, step.ParentID)
			assert.Nil(t, step.Args)
			assert.False(t, step.Time.IsZero())
			spanID = step.SpanID
		}),
		renderer.EXPECT().OnStepComplete(gomock.Any()).Do(func(end ports.StepEnd) {
			assert.Equal(t, spanID, end.SpanID)
			assert.Equal(t, -1, end.ExitCode)
			assert.NoError(t, end.Err)
		}),
	)

	_, span := newBridgedTracer(t, renderer).Start(context.Background(), "build-engine")
	span.End()
}

func TestBridge_StepCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	renderer.EXPECT().OnStepStart(gomock.Any()).Do(func(step ports.StepStart) {
		assert.Equal(t, []string{"make", "MAKELEVEL=0", "-j", "4"}, step.Args)
		assert.Equal(t, "/build/postgres", step.Dir)
	})
	renderer.EXPECT().OnStepComplete(gomock.Any()).Do(func(end ports.StepEnd) {
		assert.Equal(t, 2, end.ExitCode)
		require.Error(t, end.Err)
		assert.Equal(t, `step "build" failed`, end.Err.Error())
	})

	_, span := newBridgedTracer(t, renderer).Start(context.Background(), "build", trace.WithAttributes(
		telemetry.AttrArgs.StringSlice([]string{"make", "MAKELEVEL=0", "-j", "4"}),
		telemetry.AttrDir.String("/build/postgres"),
	))
	span.SetAttributes(attribute.Int("exit_code", 2))
	span.SetStatus(codes.Error, "step \"build\" failed\ncc: error: missing header")
	span.End()
}

func TestBridge_ParentID(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var rootID string
	renderer.EXPECT().OnStepStart(gomock.Any()).Do(func(step ports.StepStart) {
		if step.Name == "root" {
			rootID = step.SpanID
			return
		}
		assert.Equal(t, rootID, step.ParentID)
	}).Times(2)
	renderer.EXPECT().OnStepComplete(gomock.Any()).Times(2)

	tracer := newBridgedTracer(t, renderer)
	ctx, root := tracer.Start(context.Background(), "root")
	_, child := tracer.Start(ctx, "child")
	child.End()
	root.End()
}

func TestBridge_EmptyErrorStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	renderer.EXPECT().OnStepStart(gomock.Any())
	renderer.EXPECT().OnStepComplete(gomock.Any()).Do(func(end ports.StepEnd) {
		require.Error(t, end.Err)
		assert.Equal(t, "step failed", end.Err.Error())
	})

	_, span := newBridgedTracer(t, renderer).Start(context.Background(), "make")
	span.SetStatus(codes.Error, "")
	span.End()
}

func TestBridge_NilRenderer(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	_, span := tp.Tracer("test").Start(context.Background(), "step")
	span.End()

	require.NoError(t, tp.ForceFlush(context.Background()))
}
