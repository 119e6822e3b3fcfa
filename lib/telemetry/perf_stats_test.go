package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestRecordPerfStatsStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		// fast interval so a few samples land before the cancel; the
		// default meter is a noop, recording must still be safe
		recordPerfStats(ctx, time.Millisecond*5)
		close(done)
	}()

	time.Sleep(time.Millisecond * 30)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("perf stats loop did not stop after context cancellation")
	}
}
