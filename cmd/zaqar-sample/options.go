// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"time"

	"github.com/wangtaoking1/zaqar-sample/bench"
	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/flag"
	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/queue"
	"github.com/wangtaoking1/zaqar-sample/server"
	"github.com/wangtaoking1/zaqar-sample/subscriber"
	"github.com/wangtaoking1/zaqar-sample/trigger"
	"github.com/wangtaoking1/zaqar-sample/websocket"
)

var errShutdownTimeout = errors.New("--shutdown-timeout must be positive")

// Options is the configuration of the serving command.
type Options struct {
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`

	Log       *log.Options       `json:"log"       mapstructure:"log"`
	Server    *server.Options    `json:"server"    mapstructure:"server"`
	Trigger   *trigger.Options   `json:"trigger"   mapstructure:"trigger"`
	WebSocket *websocket.Options `json:"websocket" mapstructure:"websocket"`
	Publisher *queue.Options     `json:"publisher" mapstructure:"publisher"`
}

// NewOptions returns the default options.
func NewOptions() *Options {
	return &Options{
		ShutdownTimeout: 10 * time.Second,
		Log:             log.NewOptions(),
		Server:          server.NewOptions(),
		Trigger:         trigger.NewOptions(),
		WebSocket:       websocket.NewOptions(),
		Publisher:       queue.NewOptions(),
	}
}

func (o *Options) Flags() (fss flag.NamedFlagSets) {
	fs := fss.FlagSet("generic")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, ""+
		"Time given to the servers to finish in-flight requests on shutdown.")
	o.Log.AddFlags(fss.FlagSet("log"))
	o.Server.AddFlags(fss.FlagSet("server"))
	o.Trigger.AddFlags(fss.FlagSet("trigger"))
	o.WebSocket.AddFlags(fss.FlagSet("websocket"))
	o.Publisher.AddFlags(fss.FlagSet("publisher"))

	return fss
}

func (o *Options) Complete() error {
	if o.Log.Name == "" {
		o.Log.Name = appName
	}
	return nil
}

func (o *Options) Validate() []error {
	var errs []error
	if o.ShutdownTimeout <= 0 {
		errs = append(errs, errShutdownTimeout)
	}
	errs = append(errs, o.Log.Validate()...)
	errs = append(errs, o.Server.Validate()...)
	errs = append(errs, o.Trigger.Validate()...)
	errs = append(errs, o.WebSocket.Validate()...)
	errs = append(errs, o.Publisher.Validate()...)

	return errs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)
	return string(data)
}

// PublishOptions is the configuration of the publish command.
type PublishOptions struct {
	Log       *log.Options   `json:"log"       mapstructure:"log"`
	Publisher *queue.Options `json:"publisher" mapstructure:"publisher"`
}

// NewPublishOptions returns the default publish options.
func NewPublishOptions() *PublishOptions {
	return &PublishOptions{
		Log:       log.NewOptions(),
		Publisher: queue.NewOptions(),
	}
}

func (o *PublishOptions) Flags() (fss flag.NamedFlagSets) {
	o.Log.AddFlags(fss.FlagSet("log"))
	o.Publisher.AddFlags(fss.FlagSet("publisher"))

	return fss
}

func (o *PublishOptions) Validate() []error {
	return append(o.Log.Validate(), o.Publisher.Validate()...)
}

// BenchOptions is the configuration of the bench command.
type BenchOptions struct {
	Log       *log.Options   `json:"log"       mapstructure:"log"`
	Publisher *queue.Options `json:"publisher" mapstructure:"publisher"`
	Bench     *bench.Options `json:"bench"     mapstructure:"bench"`
}

// NewBenchOptions returns the default bench options.
func NewBenchOptions() *BenchOptions {
	opts := &BenchOptions{
		Log:       log.NewOptions(),
		Publisher: queue.NewOptions(),
		Bench:     bench.NewOptions(),
	}
	opts.Log.Level = "warn"

	return opts
}

func (o *BenchOptions) Flags() (fss flag.NamedFlagSets) {
	o.Bench.AddFlags(fss.FlagSet("bench"))
	o.Log.AddFlags(fss.FlagSet("log"))
	o.Publisher.AddFlags(fss.FlagSet("publisher"))

	return fss
}

func (o *BenchOptions) Validate() []error {
	errs := o.Bench.Validate()
	errs = append(errs, o.Log.Validate()...)
	errs = append(errs, o.Publisher.Validate()...)

	return errs
}

// SubscribeOptions is the configuration of the subscribe command.
type SubscribeOptions struct {
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`

	Log        *log.Options        `json:"log"        mapstructure:"log"`
	Server     *server.Options     `json:"server"     mapstructure:"server"`
	Subscriber *subscriber.Options `json:"subscriber" mapstructure:"subscriber"`
}

// NewSubscribeOptions returns the default subscribe options. The receiver
// listens on all interfaces so the queue service can reach it.
func NewSubscribeOptions() *SubscribeOptions {
	opts := &SubscribeOptions{
		ShutdownTimeout: 10 * time.Second,
		Log:             log.NewOptions(),
		Server:          server.NewOptions(),
		Subscriber:      subscriber.NewOptions(),
	}
	opts.Server.HTTP.BindAddress = "0.0.0.0"
	opts.Server.HTTP.BindPort = 5678

	return opts
}

func (o *SubscribeOptions) Flags() (fss flag.NamedFlagSets) {
	fs := fss.FlagSet("generic")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, ""+
		"Time given to the receiver to finish in-flight requests on shutdown.")
	o.Subscriber.AddFlags(fss.FlagSet("subscriber"))
	o.Log.AddFlags(fss.FlagSet("log"))
	o.Server.AddFlags(fss.FlagSet("server"))

	return fss
}

func (o *SubscribeOptions) Validate() []error {
	var errs []error
	if o.ShutdownTimeout <= 0 {
		errs = append(errs, errShutdownTimeout)
	}
	errs = append(errs, o.Subscriber.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	errs = append(errs, o.Server.Validate()...)

	return errs
}
