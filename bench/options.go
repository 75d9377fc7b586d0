// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package bench

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options contains configuration of the producer benchmark.
type Options struct {
	Workers  int           `json:"workers"  mapstructure:"workers"`
	Duration time.Duration `json:"duration" mapstructure:"duration"`
}

// NewOptions returns the default benchmark options.
func NewOptions() *Options {
	return &Options{
		Workers:  10,
		Duration: 5 * time.Second,
	}
}

// Validate verifies the benchmark options.
func (o *Options) Validate() []error {
	var errs []error
	if o.Workers < 1 {
		errs = append(errs, fmt.Errorf("--bench.workers must be at least 1"))
	}
	if o.Duration <= 0 {
		errs = append(errs, fmt.Errorf("--bench.duration must be positive"))
	}

	return errs
}

// AddFlags adds flags related to the benchmark to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.Workers, "bench.workers", o.Workers, "Number of concurrent producers.")
	fs.DurationVar(&o.Duration, "bench.duration", o.Duration, "How long every producer keeps posting.")
}
