package dispatch

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sabishii-bit/hack-interview/internal/keybind"
)

// logCounter counts warning lines emitted through zerolog.
type logCounter struct {
	mu    sync.Mutex
	lines []string
}

func (c *logCounter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, string(p))
	return len(p), nil
}

func (c *logCounter) count(substr string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}

func TestDispatchRunsInlineHandlerOnce(t *testing.T) {
	d := New(zerolog.Nop())

	count := 0
	d.Handle(keybind.ActionRecord, func() { count++ })

	d.Dispatch(keybind.ActionRecord)
	if count != 1 {
		t.Errorf("handler ran %d times for one dispatch, want 1", count)
	}
}

func TestDispatchUnknownActionWarnsOnce(t *testing.T) {
	counter := &logCounter{}
	d := New(zerolog.New(counter))

	d.Dispatch(keybind.Action("not-a-real-action"))

	if got := counter.count("unknown action"); got != 1 {
		t.Errorf("warning logged %d times, want exactly 1", got)
	}
}

func TestDispatchUnboundKnownActionWarns(t *testing.T) {
	counter := &logCounter{}
	d := New(zerolog.New(counter))

	d.Dispatch(keybind.ActionScreenshot)

	if got := counter.count("unknown action"); got != 1 {
		t.Errorf("warning logged %d times, want exactly 1", got)
	}
}

func TestDispatchAsyncReturnsImmediately(t *testing.T) {
	d := New(zerolog.Nop())

	release := make(chan struct{})
	done := make(chan struct{})
	d.HandleAsync(keybind.ActionAnalyzeAudio, func() {
		<-release
		close(done)
	})

	start := time.Now()
	d.Dispatch(keybind.ActionAnalyzeAudio)
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("async dispatch blocked for %v", elapsed)
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async handler never ran")
	}
}

func TestDispatchRecoversPanickingHandler(t *testing.T) {
	counter := &logCounter{}
	d := New(zerolog.New(counter))

	d.Handle(keybind.ActionScreenshot, func() { panic("capture exploded") })

	// Must not propagate to the caller.
	d.Dispatch(keybind.ActionScreenshot)

	if got := counter.count("handler panicked"); got != 1 {
		t.Errorf("panic logged %d times, want 1", got)
	}
}
