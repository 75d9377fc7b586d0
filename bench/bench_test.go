// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package bench

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	calls     atomic.Int64
	failEvery int64
	delay     time.Duration
}

func (p *fakePublisher) Publish(ctx context.Context) error {
	n := p.calls.Add(1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.failEvery > 0 && n%p.failEvery == 0 {
		return errors.New("transport error")
	}
	return nil
}

func TestRun(t *testing.T) {
	p := &fakePublisher{delay: time.Millisecond}
	r, err := Run(context.Background(), &Options{Workers: 4, Duration: 50 * time.Millisecond}, p)
	require.NoError(t, err)

	assert.Equal(t, p.calls.Load(), r.TotalRequests)
	assert.Equal(t, r.TotalRequests, r.SuccessfulRequests)
	assert.Zero(t, r.Failures())
	assert.GreaterOrEqual(t, r.Duration, 50*time.Millisecond)
	assert.Greater(t, r.Throughput, 0.0)
	assert.Greater(t, r.Latency, 0.0)
}

func TestRun_CountsFailures(t *testing.T) {
	p := &fakePublisher{failEvery: 2, delay: time.Millisecond}
	r, err := Run(context.Background(), &Options{Workers: 2, Duration: 30 * time.Millisecond}, p)
	require.NoError(t, err)

	assert.Equal(t, p.calls.Load(), r.TotalRequests)
	assert.Equal(t, p.calls.Load()/2, r.Failures())
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakePublisher{}
	r, err := Run(ctx, &Options{Workers: 3, Duration: time.Hour}, p)
	require.NoError(t, err)
	assert.Zero(t, r.TotalRequests)
	assert.Zero(t, r.Latency)
	assert.Zero(t, p.calls.Load())
}

func TestRun_InvalidOptions(t *testing.T) {
	_, err := Run(context.Background(), &Options{}, &fakePublisher{})
	assert.Error(t, err)
}

func TestResult(t *testing.T) {
	r := newResult(2*time.Second, 10, 8, 400*time.Millisecond)
	assert.Equal(t, int64(2), r.Failures())
	assert.InDelta(t, 4.0, r.Throughput, 1e-9)
	assert.InDelta(t, 50.0, r.Latency, 1e-9)

	empty := newResult(time.Second, 3, 0, 0)
	assert.Zero(t, empty.Latency)
	assert.Zero(t, empty.Throughput)
}

func TestResult_Print(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	require.NoError(t, newResult(2*time.Second, 10, 8, 400*time.Millisecond).Print(&buf))

	out := buf.String()
	assert.Contains(t, out, "producer")
	assert.Contains(t, out, "2.00s")
	assert.Contains(t, out, "4.00 req/s")
	assert.Contains(t, out, "50.00 ms/req")
}
