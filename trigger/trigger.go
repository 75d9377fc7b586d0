// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package trigger exposes the inbound HTTP route that publishes the sample message.
package trigger

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/server"
)

// Publisher publishes one message per call.
type Publisher interface {
	Publish(ctx context.Context) error
}

// Options contains the route of the trigger.
type Options struct {
	Path string `json:"path" mapstructure:"path"`
}

// NewOptions returns the default trigger options.
func NewOptions() *Options {
	return &Options{Path: "/"}
}

// Validate verifies the trigger options.
func (o *Options) Validate() []error {
	if !strings.HasPrefix(o.Path, "/") {
		return []error{fmt.Errorf("--trigger.path %q must start with /", o.Path)}
	}
	return nil
}

// AddFlags adds flags related to the trigger to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Path, "trigger.path", o.Path, "Path of the GET route that publishes a message.")
}

// Install returns the setup func registering the trigger route.
func Install(opts *Options, p Publisher) server.SetupFunc {
	return func(g *gin.Engine) error {
		g.GET(opts.Path, Handler(p))
		log.Infow("Publish trigger installed", "method", http.MethodGet, "path", opts.Path)

		return nil
	}
}

// Handler publishes once per request. Query parameters and the body are ignored.
func Handler(p Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := p.Publish(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

			return
		}
		c.Status(http.StatusOK)
	}
}
