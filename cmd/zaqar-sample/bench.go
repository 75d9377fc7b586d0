// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/wangtaoking1/zaqar-sample/app"
	"github.com/wangtaoking1/zaqar-sample/bench"
	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/queue"
	"github.com/wangtaoking1/zaqar-sample/shutdown"
	"github.com/wangtaoking1/zaqar-sample/shutdown/trigger/posixsignal"
)

func benchCommand() app.Command {
	opts := NewBenchOptions()
	return app.NewCommand("bench",
		"Benchmark posting messages",
		app.WithCmdDescription("Post messages from concurrent producers for a fixed duration and report "+
			"throughput and latency."),
		app.WithCmdOptions(opts),
		app.WithCmdSilence(),
		app.WithCmdNoArgs(),
		app.WithCmdRunFunc(func(string) error {
			log.Init(opts.Log)
			defer log.Flush()

			p, err := queue.NewPublisher(opts.Publisher, queue.NewRestyClient)
			if err != nil {
				return err
			}

			// Interrupting stops the producers early, the partial result is still reported.
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			gs := shutdown.New(posixsignal.New())
			gs.AddCallback("bench", shutdown.CallbackFunc(func(context.Context, string) error {
				cancel()
				return nil
			}))
			if err := gs.Start(); err != nil {
				return err
			}

			log.Infow("Starting producers", "workers", opts.Bench.Workers, "duration", opts.Bench.Duration, "url", p.URL())
			result, err := bench.Run(ctx, opts.Bench, p)
			if err != nil {
				return err
			}

			return result.Print(os.Stdout)
		}),
	)
}
