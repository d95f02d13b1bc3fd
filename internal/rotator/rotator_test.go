package rotator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceWraps(t *testing.T) {
	r := New([]string{"a", "b", "c"}, time.Hour)

	assert.Equal(t, "a", r.Current())
	r.Advance()
	assert.Equal(t, "b", r.Current())
	r.Advance()
	r.Advance()
	assert.Equal(t, "a", r.Current())
}

func TestEmpty(t *testing.T) {
	r := New(nil, time.Millisecond)

	assert.Equal(t, "", r.Current())
	assert.Equal(t, 0, r.Advance())
	r.Start(context.Background())
	assert.False(t, r.Running())
}

func TestStartStop(t *testing.T) {
	r := New([]string{"a", "b"}, 5*time.Millisecond)
	ticks := make(chan int, 16)
	r.onAfter = func(i int) {
		select {
		case ticks <- i:
		default:
		}
	}

	r.Start(context.Background())
	require.True(t, r.Running())
	// second start is ignored
	r.Start(context.Background())

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("rotator never advanced")
	}

	r.Stop()
	assert.False(t, r.Running())

	// drain whatever was queued before Stop returned, then expect silence
	for len(ticks) > 0 {
		<-ticks
	}
	before := r.Current()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, before, r.Current())
	assert.Empty(t, ticks)

	// stopping twice is fine
	r.Stop()
}

func TestStopOnContextCancel(t *testing.T) {
	r := New([]string{"a", "b"}, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	r.Start(ctx)
	cancel()
	r.Stop()

	assert.False(t, r.Running())
}
