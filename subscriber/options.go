// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package subscriber

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Options contains the webhook route and the confirmation behaviour of the subscriber.
type Options struct {
	Path           string        `json:"path"            mapstructure:"path"`
	AutoConfirm    bool          `json:"auto-confirm"    mapstructure:"auto-confirm"`
	ConfirmTimeout time.Duration `json:"confirm-timeout" mapstructure:"confirm-timeout"`
}

// NewOptions returns the default subscriber options.
func NewOptions() *Options {
	return &Options{
		Path:           "/",
		AutoConfirm:    false,
		ConfirmTimeout: 10 * time.Second,
	}
}

// Validate verifies the subscriber options.
func (o *Options) Validate() []error {
	var errs []error
	if !strings.HasPrefix(o.Path, "/") {
		errs = append(errs, fmt.Errorf("--subscriber.path %q must start with /", o.Path))
	}
	if o.ConfirmTimeout <= 0 {
		errs = append(errs, fmt.Errorf("--subscriber.confirm-timeout must be positive"))
	}

	return errs
}

// AddFlags adds flags related to the subscriber to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Path, "subscriber.path", o.Path, "Path of the POST route receiving notifications.")
	fs.BoolVar(&o.AutoConfirm, "subscriber.auto-confirm", o.AutoConfirm, ""+
		"Confirm the subscription when a confirmation notification arrives.")
	fs.DurationVar(&o.ConfirmTimeout, "subscriber.confirm-timeout", o.ConfirmTimeout, ""+
		"Timeout of the confirmation request.")
}
