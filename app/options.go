// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/flag"
	"github.com/wangtaoking1/zaqar-sample/log"
)

// CmdOptions abstracts configuration options for reading parameters from the
// command line.
type CmdOptions interface {
	// Flags returns all FlagSets of command by sectioned.
	Flags() (fss flag.NamedFlagSets)
	// Validate validates the options fields.
	Validate() []error
}

// CompleteableOptions abstracts options which can be completed.
type CompleteableOptions interface {
	// Complete completes the options fields.
	Complete() error
}

// PrintableOptions abstracts options which can be printed.
type PrintableOptions interface {
	String() string
}

// bindOptions overlays the config file and the environment on the flags of cmd
// and decodes the result into opts.
func bindOptions(cmd *cobra.Command, opts CmdOptions) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	if err := viper.Unmarshal(opts); err != nil {
		return errors.Wrap(err, "decode options")
	}

	return nil
}

// applyOptionRules completes, validates and prints opts.
func applyOptionRules(opts CmdOptions, silence bool) error {
	if completeableOptions, ok := opts.(CompleteableOptions); ok {
		if err := completeableOptions.Complete(); err != nil {
			return err
		}
	}

	if errs := opts.Validate(); len(errs) != 0 {
		return errors.NewAggregate(errs)
	}

	if printableOptions, ok := opts.(PrintableOptions); ok && !silence {
		log.Infof("%v Config: `%s`", progressMessage, printableOptions.String())
	}

	return nil
}
