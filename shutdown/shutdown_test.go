// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package shutdown

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrigger struct {
	after atomic.Int32
}

var _ Trigger = (*fakeTrigger)(nil)

func (f *fakeTrigger) GetName() string {
	return "fake"
}

func (f *fakeTrigger) Start(executor Executor) error {
	executor.Execute(f)

	return nil
}

func (f *fakeTrigger) After() {
	f.after.Add(1)
}

func TestShutdown_CallbackCalled(t *testing.T) {
	c := make(chan string, 10)
	gs := New(&fakeTrigger{})
	for i := 0; i < 10; i++ {
		gs.AddCallback(strconv.Itoa(i), CallbackFunc(func(_ context.Context, trigger string) error {
			c <- trigger

			return nil
		}))
	}

	require.NoError(t, gs.Start())

	assert.Equal(t, 10, len(c), "callback not be called")
	assert.Equal(t, "fake", <-c)
	select {
	case <-gs.Done():
	default:
		assert.Fail(t, "shutdown not done")
	}
}

func TestShutdown_HandleError(t *testing.T) {
	c := make(chan error, 1)
	gs := New(&fakeTrigger{})
	gs.SetErrorHandler(ErrorFunc(func(err error) {
		c <- err
	}))
	gs.AddCallback("api-server", CallbackFunc(func(context.Context, string) error {
		return fmt.Errorf("error")
	}))

	_ = gs.Start()
	require.Equal(t, 1, len(c), "error handler not be called")
	assert.Equal(t, "shutdown api-server: error", (<-c).Error())
}

func TestShutdown_Timeout(t *testing.T) {
	c := make(chan error, 1)
	gs := New(&fakeTrigger{})
	gs.SetTimeout(10 * time.Millisecond)
	gs.AddCallback("slow", CallbackFunc(func(ctx context.Context, _ string) error {
		<-ctx.Done()
		c <- ctx.Err()

		return nil
	}))

	_ = gs.Start()
	assert.ErrorIs(t, <-c, context.DeadlineExceeded)
}

func TestShutdown_ExecutesOnce(t *testing.T) {
	var calls atomic.Int32
	first, second := &fakeTrigger{}, &fakeTrigger{}
	gs := New(first, second)
	gs.AddCallback("counter", CallbackFunc(func(context.Context, string) error {
		calls.Add(1)

		return nil
	}))

	_ = gs.Start()
	assert.EqualValues(t, 1, calls.Load())
	assert.EqualValues(t, 1, first.after.Load())
	assert.EqualValues(t, 1, second.after.Load())
}
