// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/wangtaoking1/zaqar-sample/app"
	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/queue"
)

func publishCommand() app.Command {
	opts := NewPublishOptions()
	return app.NewCommand("publish",
		"Post the sample message once",
		app.WithCmdDescription("Post the configured message to the configured queue once and exit."),
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
			if err := p.Publish(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s posted to %s\n", color.GreenString("Message"), p.URL())

			return nil
		}),
	)
}
