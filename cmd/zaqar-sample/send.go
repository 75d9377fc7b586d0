// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/wangtaoking1/zaqar-sample/app"
	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/flag"
	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/websocket"
)

// SendOptions is the configuration of the send command.
type SendOptions struct {
	URL     string        `json:"url"     mapstructure:"url"`
	Text    string        `json:"text"    mapstructure:"text"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	Log *log.Options `json:"log" mapstructure:"log"`
}

// NewSendOptions returns the default send options.
func NewSendOptions() *SendOptions {
	return &SendOptions{
		URL:     "ws://127.0.0.1:6060/ws",
		Text:    `{"action":"queue_list"}`,
		Timeout: 5 * time.Second,
		Log:     log.NewOptions(),
	}
}

func (o *SendOptions) Flags() (fss flag.NamedFlagSets) {
	fs := fss.FlagSet("send")
	fs.StringVar(&o.URL, "send.url", o.URL, "URL of the websocket endpoint.")
	fs.StringVar(&o.Text, "send.text", o.Text, "Text frame to send.")
	fs.DurationVar(&o.Timeout, "send.timeout", o.Timeout, "Time to wait for the response frame.")
	o.Log.AddFlags(fss.FlagSet("log"))

	return fss
}

func (o *SendOptions) Validate() []error {
	var errs []error
	if u, err := url.Parse(o.URL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		errs = append(errs, fmt.Errorf("--send.url %q must be a ws:// or wss:// URL", o.URL))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("--send.timeout must be positive"))
	}

	return append(errs, o.Log.Validate()...)
}

func sendCommand() app.Command {
	opts := NewSendOptions()
	return app.NewCommand("send",
		"Send a text frame to the websocket endpoint",
		app.WithCmdDescription("Send one text frame to a running websocket endpoint and print the decoded response."),
		app.WithCmdOptions(opts),
		app.WithCmdSilence(),
		app.WithCmdNoArgs(),
		app.WithCmdRunFunc(func(string) error {
			log.Init(opts.Log)
			defer log.Flush()

			return send(opts)
		}),
	)
}

func send(opts *SendOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	c, err := websocket.Dial(ctx, opts.URL, nil)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if err := c.WriteText(opts.Text); err != nil {
		return errors.Wrap(err, "send text frame")
	}
	msg, err := c.Read(ctx)
	if err != nil {
		return errors.Wrap(err, "read response frame")
	}

	out, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))

	return err
}
