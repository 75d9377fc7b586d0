// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package shutdown

import (
	"context"
	"sync"
	"time"

	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
)

// DefaultTimeout bounds the time all callbacks together may take.
const DefaultTimeout = 10 * time.Second

// Callback is an interface you have to implement for callbacks.
type Callback interface {
	// OnShutdown is called once shutdown is triggered. The ctx expires with the
	// shutdown timeout, trigger is the name of the trigger that fired.
	OnShutdown(ctx context.Context, trigger string) error
}

// CallbackFunc is a helper type, so you can easily provide anonymous functions
// as shutdown Callbacks.
type CallbackFunc func(ctx context.Context, trigger string) error

func (f CallbackFunc) OnShutdown(ctx context.Context, trigger string) error {
	return f(ctx, trigger)
}

// ErrorHandler is an interface you can pass to SetErrorHandler to
// handle asynchronous errors.
type ErrorHandler interface {
	OnError(error)
}

// ErrorFunc is a helper type, so you can easily provide anonymous functions
// as ErrorHandlers.
type ErrorFunc func(err error)

// OnError defines the action needed to run when error occurred.
func (f ErrorFunc) OnError(err error) {
	f(err)
}

// Executor is the interface of execute func after triggering shutdown.
type Executor interface {
	Execute(Trigger)
}

// ExecuteFunc defines the execute func.
type ExecuteFunc func(Trigger)

func (f ExecuteFunc) Execute(trigger Trigger) {
	f(trigger)
}

// Trigger is an interface implemented by shutdown triggers.
type Trigger interface {
	// GetName returns the name of the trigger.
	GetName() string
	// Start starts the trigger to listen some shutdown requests.
	Start(Executor) error
	// After is called once all callbacks returned.
	After()
}

// Shutdown is an interface implemented by shutdownController,
// that receives shutdown triggers when shutdown is requested.
type Shutdown interface {
	// Start starts the graceful shutdown controller.
	Start() error
	// AddCallback adds a named callback to the shutdown controller.
	AddCallback(name string, cb Callback)
	// SetErrorHandler set errorHandler for the shutdown controller.
	SetErrorHandler(ErrorHandler)
	// SetTimeout changes the deadline given to the callbacks.
	SetTimeout(time.Duration)
	// Done is closed once shutdown finished.
	Done() <-chan struct{}
}

type namedCallback struct {
	name string
	cb   Callback
}

type shutdownController struct {
	triggers     []Trigger
	callbacks    []namedCallback
	errorHandler ErrorHandler
	timeout      time.Duration

	once sync.Once
	done chan struct{}
}

// New returns a new graceful shutdown instance with the specified triggers.
func New(triggers ...Trigger) Shutdown {
	return &shutdownController{
		triggers:  triggers,
		callbacks: make([]namedCallback, 0, 2),
		timeout:   DefaultTimeout,
		done:      make(chan struct{}),
	}
}

func (g *shutdownController) AddCallback(name string, cb Callback) {
	g.callbacks = append(g.callbacks, namedCallback{name: name, cb: cb})
}

func (g *shutdownController) SetErrorHandler(h ErrorHandler) {
	g.errorHandler = h
}

func (g *shutdownController) SetTimeout(timeout time.Duration) {
	g.timeout = timeout
}

func (g *shutdownController) Done() <-chan struct{} {
	return g.done
}

func (g *shutdownController) Start() error {
	for _, t := range g.triggers {
		if err := t.Start(g.executeFunc()); err != nil {
			return errors.WithMessagef(err, "start shutdown trigger %s error", t.GetName())
		}
	}

	return nil
}

func (g *shutdownController) executeFunc() Executor {
	return ExecuteFunc(func(trigger Trigger) {
		g.once.Do(func() {
			log.Infow("Shutdown triggered", "trigger", trigger.GetName())
			g.runCallbacks(trigger.GetName())
			close(g.done)
		})

		trigger.After()
	})
}

func (g *shutdownController) runCallbacks(trigger string) {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, nc := range g.callbacks {
		wg.Add(1)
		go func(nc namedCallback) {
			defer wg.Done()

			if err := nc.cb.OnShutdown(ctx, trigger); err != nil {
				g.handleError(errors.WithMessagef(err, "shutdown %s", nc.name))
				return
			}
			log.Debug("Shutdown callback finished", "name", nc.name)
		}(nc)
	}

	wg.Wait()
}

func (g *shutdownController) handleError(err error) {
	if err == nil || g.errorHandler == nil {
		return
	}
	g.errorHandler.OnError(err)
}
