// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wangtaoking1/zaqar-sample/errors"
)

func TestRetryWithTimeout(t *testing.T) {
	c := 0
	err := RetryWithTimeout(context.Background(), 10*time.Millisecond, 35*time.Millisecond, func() error {
		c++
		return errors.WithMessage(RetryableErr, "error")
	})
	assert.ErrorIs(t, err, TimeoutErr)
	assert.GreaterOrEqual(t, c, 3)
}

func TestRetryWithTimeout_Succeeds(t *testing.T) {
	c := 0
	err := RetryWithTimeout(context.Background(), time.Millisecond, time.Second, func() error {
		c++
		if c < 3 {
			return RetryableErr
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, c)
}

func TestRetryWithTimeout_NotRetryable(t *testing.T) {
	c := 0
	err := RetryWithTimeout(context.Background(), time.Millisecond, time.Second, func() error {
		c++
		return errors.New("fatal")
	})
	assert.EqualError(t, err, "fatal")
	assert.Equal(t, 1, c)
}

func TestRetryWithTimeout_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithTimeout(ctx, time.Second, 0, func() error {
		return RetryableErr
	})
	assert.ErrorIs(t, err, context.Canceled)
}
