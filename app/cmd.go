// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wangtaoking1/zaqar-sample/flag"
	"github.com/wangtaoking1/zaqar-sample/version/verflag"
)

// Command is the Interface of command.
type Command interface {
	// AddCommands add children commands to the Command.
	AddCommands(cmds ...Command)
	// Command returns the cobra command instance of the Command.
	Command() *cobra.Command
}

// command is a sub command structure of an application.
// It is recommended that a command be created with the app.NewCommand()
// function.
type command struct {
	name        string
	short       string
	description string
	options     CmdOptions
	commands    []Command
	runFunc     RunFunc
	silence     bool
	args        cobra.PositionalArgs
}

// CommandOption defines optional parameters for initializing the command
// structure.
type CommandOption func(*command)

// WithCmdOptions to open the application's function to read from the command line.
func WithCmdOptions(opt CmdOptions) CommandOption {
	return func(c *command) {
		c.options = opt
	}
}

// WithCmdDescription is used to set the description of the command.
func WithCmdDescription(desc string) CommandOption {
	return func(c *command) {
		c.description = desc
	}
}

// WithCmdRunFunc is used to set the application's command startup callback
// function option.
func WithCmdRunFunc(run RunFunc) CommandOption {
	return func(c *command) {
		c.runFunc = run
	}
}

// WithCmdSilence stops the command from printing its config before running.
func WithCmdSilence() CommandOption {
	return func(c *command) {
		c.silence = true
	}
}

// WithCmdNoArgs rejects any positional argument.
func WithCmdNoArgs() CommandOption {
	return func(c *command) {
		c.args = cobra.NoArgs
	}
}

// NewCommand creates a new sub command instance based on the given command name
// and other options.
func NewCommand(name string, short string, opts ...CommandOption) Command {
	c := &command{
		name:  name,
		short: short,
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

func (c *command) AddCommands(cmds ...Command) {
	c.commands = append(c.commands, cmds...)
}

func (c *command) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           c.name,
		Short:         c.short,
		Long:          c.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          c.args,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = false

	for _, sub := range c.commands {
		cmd.AddCommand(sub.Command())
	}
	if c.runFunc != nil {
		cmd.RunE = c.runCommand
	}

	var namedFlagSets flag.NamedFlagSets
	if c.options != nil {
		namedFlagSets = c.options.Flags()
		fs := cmd.Flags()
		for _, f := range namedFlagSets.FlagSets {
			fs.AddFlagSet(f)
		}
	}
	addHelpFlag(c.name, cmd.Flags())
	addCmdTemplate(cmd, namedFlagSets)

	return cmd
}

func (c *command) runCommand(cmd *cobra.Command, args []string) error {
	verflag.PrintAndExitIfRequested()
	if c.options != nil {
		if err := bindOptions(cmd, c.options); err != nil {
			return err
		}
		if err := applyOptionRules(c.options, c.silence); err != nil {
			return err
		}
	}

	return c.runFunc(c.name)
}
