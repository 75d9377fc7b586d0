// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// zaqar-sample posts sample messages to a Zaqar queue when its trigger route is
// requested, and decodes JSON text frames received on its websocket endpoint.
package main

import (
	"github.com/wangtaoking1/zaqar-sample/app"
)

const (
	appName = "zaqar-sample"

	description = `zaqar-sample serves two sample endpoints:

  GET <trigger.path>     posts {"messages":[{"body":"Zaqar Sample"}]} to the configured queue.
  <websocket.path>       decodes every text frame as a JSON object.

The publish and bench sub commands post without starting any server, send talks
to a running websocket endpoint and subscribe receives subscription notifications.`
)

func main() {
	opts := NewOptions()
	application := app.NewApp(appName,
		"Zaqar sample publisher",
		app.WithDescription(description),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithCommands(publishCommand(), benchCommand(), sendCommand(), subscribeCommand()),
		app.WithRunFunc(run(opts)),
	)

	application.Run()
}
