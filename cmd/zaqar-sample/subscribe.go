// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/wangtaoking1/zaqar-sample/app"
	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/server"
	"github.com/wangtaoking1/zaqar-sample/subscriber"
)

func subscribeCommand() app.Command {
	opts := NewSubscribeOptions()
	return app.NewCommand("subscribe",
		"Receive subscription notifications",
		app.WithCmdDescription("Serve a webhook that logs the notifications posted by the queue service. "+
			"With --subscriber.auto-confirm, confirmation notifications are confirmed."),
		app.WithCmdOptions(opts),
		app.WithCmdSilence(),
		app.WithCmdNoArgs(),
		app.WithCmdRunFunc(func(string) error {
			log.Init(opts.Log)
			defer log.Flush()

			return subscribe(opts)
		}),
	)
}

func subscribe(opts *SubscribeOptions) error {
	apiServer := server.New(opts.Server)
	confirmer := subscriber.NewConfirmer(opts.Subscriber)
	if err := apiServer.Setup(subscriber.Install(opts.Subscriber, confirmer)); err != nil {
		return errors.WithMessage(err, "install notification receiver")
	}

	gs := newShutdown(opts.ShutdownTimeout, map[string]closer{"subscriber": apiServer})
	if err := gs.Start(); err != nil {
		return err
	}

	return apiServer.Run()
}
