package linear_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/adapters/linear"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Renderer = (*linear.Renderer)(nil)

func TestRenderer_Lifecycle(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	r := linear.NewRenderer(&buf)

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	r.OnPlanEmit([]string{"configure", "make", "make install"})
	r.OnStepStart(ports.StepStart{
		SpanID: "span1",
		Name:   "configure",
		Args:   []string{"./configure", "--prefix=/opt"},
		Dir:    "/build/postgres",
		Time:   start,
	})
	r.OnStepComplete(ports.StepEnd{SpanID: "span1", Time: start.Add(1234 * time.Millisecond), ExitCode: 0})
	r.OnStepStart(ports.StepStart{SpanID: "span2", Name: "make", Args: []string{"make", "-j", "4"}, Time: start})
	r.OnStepComplete(ports.StepEnd{
		SpanID:   "span2",
		Time:     start.Add(250 * time.Millisecond),
		ExitCode: 2,
		Err:      zerr.New("exit status 2"),
	})
	r.OnStepStart(ports.StepStart{SpanID: "span3", Name: "engine", Time: start})
	r.OnStepComplete(ports.StepEnd{
		SpanID:   "span3",
		Time:     start.Add(2 * time.Second),
		ExitCode: -1,
		Err:      zerr.New("step failed"),
	})

	goldie.New(t).Assert(t, "lifecycle", buf.Bytes())
}

func TestRenderer_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	r := linear.NewRenderer(&buf)

	start := time.Now()
	r.OnStepStart(ports.StepStart{SpanID: "span1", Name: "step", Time: start})
	r.OnStepComplete(ports.StepEnd{SpanID: "span1", Time: start.Add(50*time.Millisecond), ExitCode: -1})

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRenderer_Colored(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	r := linear.NewRenderer(&buf)

	start := time.Now()
	r.OnStepStart(ports.StepStart{SpanID: "span1", Name: "step", Time: start})
	r.OnStepComplete(ports.StepEnd{SpanID: "span1", Time: start.Add(50*time.Millisecond), ExitCode: -1})

	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRenderer_UnknownSpan(t *testing.T) {
	var buf bytes.Buffer
	r := linear.NewRenderer(&buf)

	r.OnStepComplete(ports.StepEnd{SpanID: "unknown-span", Time: time.Now(), ExitCode: -1})

	assert.Empty(t, buf.String())
}

func TestRenderer_EmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	r := linear.NewRenderer(&buf)

	r.OnPlanEmit(nil)

	assert.Empty(t, buf.String())
}

func TestRenderer_SetOutput(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var first, second bytes.Buffer
	r := linear.NewRenderer(&first)
	r.SetOutput(&second)

	r.OnStepStart(ports.StepStart{SpanID: "span1", Name: "step", Time: time.Now()})

	assert.Empty(t, first.String())
	assert.Equal(t, "[step] Starting...\n", second.String())
}

func TestRenderer_NilOutput(_ *testing.T) {
	r := linear.NewRenderer(nil)

	start := time.Now()
	r.OnStepStart(ports.StepStart{SpanID: "span1", Name: "step", Time: start})
	r.OnStepComplete(ports.StepEnd{SpanID: "span1", Time: start.Add(time.Second), ExitCode: -1})
}
