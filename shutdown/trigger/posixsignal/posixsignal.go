// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package posixsignal

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/shutdown"
)

// Name defines shutdown manager name.
const Name = "PosixSignalTrigger"

// trigger implements the shutdown Trigger interface that is added
// to GracefulShutdown. Initialize with New.
type trigger struct {
	signals []os.Signal
	ch      chan os.Signal
}

// GetName returns name of this trigger.
func (t *trigger) GetName() string {
	return Name
}

// Start starts listening for posix signals.
func (t *trigger) Start(executor shutdown.Executor) error {
	signal.Notify(t.ch, t.signals...)
	go func() {
		// Block until a signal is received.
		sig := <-t.ch
		log.Infow("Received signal", "signal", sig.String())

		executor.Execute(t)
	}()

	return nil
}

// After stops relaying signals, so a second signal terminates the process.
func (t *trigger) After() {
	signal.Stop(t.ch)
}

// New initializes the PosixSignalTrigger.
// You can provide os.Signal-s as arguments, if none given,
// it will use SIGINT and SIGTERM default.
func New(sig ...os.Signal) shutdown.Trigger {
	if len(sig) == 0 {
		sig = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	return &trigger{
		signals: sig,
		ch:      make(chan os.Signal, 1),
	}
}
