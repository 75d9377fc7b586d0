// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package utils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	result := 0
	err := Retry(context.Background(), 3, 1*time.Millisecond, func() error {
		result++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, result)
}

func TestRetry_Error(t *testing.T) {
	result := 0
	err := Retry(context.Background(), 3, 1*time.Millisecond, func() error {
		result++
		return fmt.Errorf("err")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, result)
}

func TestRetry_NotRetryErr(t *testing.T) {
	result := 0
	err := Retry(context.Background(), 3, 1*time.Millisecond, func() error {
		result++
		return errors.Wrap(NotRetryErr, "err")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, result)
}

func TestRetry_ZeroLimitRunsOnce(t *testing.T) {
	result := 0
	_ = Retry(context.Background(), 0, time.Millisecond, func() error {
		result++
		return fmt.Errorf("err")
	})
	assert.Equal(t, 1, result)
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := 0
	err := Retry(ctx, 5, time.Second, func() error {
		result++
		return fmt.Errorf("err")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, result)
}
