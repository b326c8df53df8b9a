package httputil

import (
	"context"
	"time"
)

// Poll calls check, then waits interval and calls it again until check
// reports done or returns an error. Cancelling ctx stops the loop with
// ctx.Err(). There is no attempt limit.
func Poll(ctx context.Context, interval time.Duration, check func(context.Context) (done bool, err error)) error {
	t := time.NewTicker(max(interval, time.Millisecond))
	defer t.Stop()

	for {
		done, err := check(ctx)
		if err != nil || done {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
