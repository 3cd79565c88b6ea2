package timex

import (
	"context"
	"time"
)

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Ms converts a millisecond count to a Duration.
func Ms[T ~int | ~uint16 | ~uint32](ms T) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Sleeper blocks for d and reports whether to continue (false => cancelled).
type Sleeper func(ctx context.Context, d time.Duration) bool

// Sleep waits for d or until ctx is done. A non-positive d only checks ctx.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
