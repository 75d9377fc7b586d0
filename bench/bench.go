// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package bench is a load generator posting messages from concurrent producers.
package bench

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
)

// Publisher publishes one message per call.
type Publisher interface {
	Publish(ctx context.Context) error
}

type stats struct {
	mu         sync.Mutex
	total      int64
	successful int64
	elapsed    time.Duration
}

func (s *stats) add(total, successful int64, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total += total
	s.successful += successful
	s.elapsed += elapsed
}

// Run starts opts.Workers producers, each posting until opts.Duration elapsed
// or ctx is done. A failed post is counted and logged.
func Run(ctx context.Context, opts *Options, p Publisher) (*Result, error) {
	if errs := opts.Validate(); len(errs) != 0 {
		return nil, errors.NewAggregate(errs)
	}

	pool, err := ants.NewPool(opts.Workers, ants.WithPanicHandler(func(v interface{}) {
		log.Errorw("Producer panicked", "panic", v)
	}))
	if err != nil {
		return nil, errors.Wrap(err, "create producer pool")
	}
	defer pool.Release()

	var (
		st  stats
		wg  sync.WaitGroup
		end = time.Now().Add(opts.Duration)
	)
	start := time.Now()
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		id := i
		if err := pool.Submit(func() {
			defer wg.Done()
			produce(ctx, id, p, end, &st)
		}); err != nil {
			wg.Done()
			return nil, errors.Wrap(err, "submit producer")
		}
	}
	wg.Wait()

	return newResult(time.Since(start), st.total, st.successful, st.elapsed), nil
}

func produce(ctx context.Context, id int, p Publisher, end time.Time, st *stats) {
	var (
		total, successful int64
		elapsed           time.Duration
	)
	defer func() { st.add(total, successful, elapsed) }()

	logger := log.From(ctx).With("producer", id)
	for ctx.Err() == nil && time.Now().Before(end) {
		start := time.Now()
		if err := p.Publish(ctx); err != nil {
			logger.Warnw("Could not post a message", "error", err)
		} else {
			elapsed += time.Since(start)
			successful++
		}
		total++
	}
}
