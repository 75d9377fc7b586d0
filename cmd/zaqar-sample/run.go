// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wangtaoking1/zaqar-sample/app"
	"github.com/wangtaoking1/zaqar-sample/codec"
	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/queue"
	"github.com/wangtaoking1/zaqar-sample/server"
	"github.com/wangtaoking1/zaqar-sample/shutdown"
	"github.com/wangtaoking1/zaqar-sample/shutdown/trigger/posixsignal"
	"github.com/wangtaoking1/zaqar-sample/trigger"
	"github.com/wangtaoking1/zaqar-sample/websocket"
)

// closer is a server stopped by the shutdown controller.
type closer interface {
	Close(ctx context.Context) error
}

func run(opts *Options) app.RunFunc {
	return func(name string) error {
		log.Init(opts.Log)
		defer log.Flush()

		publisher, err := queue.NewPublisher(opts.Publisher, queue.NewRestyClient)
		if err != nil {
			return err
		}
		log.Infow("Publisher ready", "url", publisher.URL())

		apiServer := server.New(opts.Server)
		if err := apiServer.Setup(trigger.Install(opts.Trigger, publisher)); err != nil {
			return errors.WithMessage(err, "install publish trigger")
		}

		servers := map[string]closer{"api-server": apiServer}
		var wsServer *websocket.Server
		if opts.WebSocket.Enabled {
			wsServer = websocket.NewServer(codec.NewJSONDecoder, websocket.NewResponseHandler(), opts.WebSocket)
			servers["websocket-server"] = wsServer
		}

		gs := newShutdown(opts.ShutdownTimeout, servers)
		if err := gs.Start(); err != nil {
			return err
		}

		eg, ctx := errgroup.WithContext(context.Background())
		eg.Go(apiServer.Run)
		if wsServer != nil {
			eg.Go(wsServer.Run)
		}
		eg.Go(func() error {
			select {
			case <-gs.Done():
			case <-ctx.Done():
				// One server failed, stop the others.
				closeAll(servers)
			}
			return nil
		})

		if err := eg.Wait(); err != nil {
			return err
		}
		log.Infof("%s stopped", name)

		return nil
	}
}

func newShutdown(timeout time.Duration, servers map[string]closer) shutdown.Shutdown {
	gs := shutdown.New(posixsignal.New())
	gs.SetTimeout(timeout)
	gs.SetErrorHandler(shutdown.ErrorFunc(func(err error) {
		log.Errorw("Shutdown failed", "error", err)
	}))
	for name, s := range servers {
		s := s
		gs.AddCallback(name, shutdown.CallbackFunc(func(ctx context.Context, _ string) error {
			return s.Close(ctx)
		}))
	}

	return gs
}

func closeAll(servers map[string]closer) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdown.DefaultTimeout)
	defer cancel()

	for name, s := range servers {
		if err := s.Close(ctx); err != nil {
			log.Warnw("Failed to close server", "name", name, "error", err)
		}
	}
}
