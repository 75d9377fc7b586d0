// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Options contains configuration options.
type Options struct {
	Enabled          bool          `json:"enabled"           mapstructure:"enabled"`
	BindAddress      string        `json:"bind-address"      mapstructure:"bind-address"`
	BindPort         int           `json:"bind-port"         mapstructure:"bind-port"`
	Path             string        `json:"path"              mapstructure:"path"`
	ReadBufferSize   int           `json:"read-buffer-size"  mapstructure:"read-buffer-size"`
	WriteBufferSize  int           `json:"write-buffer-size" mapstructure:"write-buffer-size"`
	Compression      bool          `json:"compression"       mapstructure:"compression"`
	MaxMessageSize   int64         `json:"max-message-size"  mapstructure:"max-message-size"`
	PingInterval     time.Duration `json:"ping-interval"     mapstructure:"ping-interval"`
	HeartbeatTimeout time.Duration `json:"heartbeat-timeout" mapstructure:"heartbeat-timeout"`
}

// NewOptions return a new options for server.
func NewOptions() *Options {
	return &Options{
		Enabled:          true,
		BindAddress:      "127.0.0.1",
		BindPort:         6060,
		Path:             "/ws",
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		Compression:      true,
		MaxMessageSize:   0,
		PingInterval:     10 * time.Second,
		HeartbeatTimeout: 30 * time.Second,
	}
}

func (o *Options) Validate() []error {
	if !o.Enabled {
		return nil
	}

	var errs []error
	if o.BindPort <= 0 || o.BindPort > 65535 {
		errs = append(errs, fmt.Errorf("--websocket.bind-port %v must be between 1 and 65535", o.BindPort))
	}
	if !strings.HasPrefix(o.Path, "/") {
		errs = append(errs, fmt.Errorf("--websocket.path %q must start with /", o.Path))
	}
	if o.MaxMessageSize < 0 {
		errs = append(errs, fmt.Errorf("--websocket.max-message-size cannot be negative"))
	}
	if o.PingInterval <= 0 || o.PingInterval >= o.HeartbeatTimeout {
		errs = append(errs, fmt.Errorf("--websocket.ping-interval must be positive and less than --websocket.heartbeat-timeout"))
	}
	return errs
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "websocket.enabled", o.Enabled, "Serve the websocket decoder endpoint")
	fs.StringVar(&o.BindAddress, "websocket.bind-address", o.BindAddress, "The IP address on which to serve the websocket server")
	fs.IntVar(&o.BindPort, "websocket.bind-port", o.BindPort, "The port on which to serve the websocket server")
	fs.StringVar(&o.Path, "websocket.path", o.Path, "The path of the websocket endpoint")
	fs.IntVar(&o.ReadBufferSize, "websocket.read-buffer-size", o.ReadBufferSize, "The byte size of websocket read buffer")
	fs.IntVar(&o.WriteBufferSize, "websocket.write-buffer-size", o.WriteBufferSize, "The byte size of websocket write buffer")
	fs.BoolVar(&o.Compression, "websocket.compression", o.Compression, "Enable compression for websocket message")
	fs.Int64Var(&o.MaxMessageSize, "websocket.max-message-size", o.MaxMessageSize, "Maximum frame size read from a peer, 0 means unlimited")
	fs.DurationVar(&o.PingInterval, "websocket.ping-interval", o.PingInterval, "Interval of ping frames sent to peers")
	fs.DurationVar(&o.HeartbeatTimeout, "websocket.heartbeat-timeout", o.HeartbeatTimeout, "Close a peer when nothing is read within this time")
}

// Address join host IP address and host port number into an address string, like: 0.0.0.0:6060.
func (o *Options) Address() string {
	return net.JoinHostPort(o.BindAddress, strconv.Itoa(o.BindPort))
}
