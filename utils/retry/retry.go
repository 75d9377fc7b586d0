// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"time"

	"github.com/wangtaoking1/zaqar-sample/errors"
)

var (
	// RetryableErr marks an attempt that failed but may succeed later.
	RetryableErr = errors.New("retry")
	// TimeoutErr is returned when no attempt succeeded before the deadline.
	TimeoutErr = errors.New("retry timeout")
)

// RetryWithTimeout calls do right away and then every interval until it returns
// nil or a non-retryable error, the timeout elapses or ctx is done. A zero
// timeout waits forever.
func RetryWithTimeout(ctx context.Context, interval time.Duration, timeout time.Duration, do func() error) error {
	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		err := do()
		if err == nil {
			return nil
		}
		if !errors.Is(err, RetryableErr) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return TimeoutErr
		case <-ticker.C:
		}
	}
}
