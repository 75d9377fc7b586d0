// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wangtaoking1/zaqar-sample/codec"
	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
)

const (
	writeTimeout    = 10 * time.Second
	writeBufferSize = 100
)

// ErrPeerClosed is returned by Write once the peer is gone.
var ErrPeerClosed = errors.New("websocket peer closed")

type clientPeer struct {
	clientID string
	opts     *Options
	decoder  codec.Decoder
	handler  Handler
	conn     *websocket.Conn
	writeCh  chan interface{}

	stopCh   chan struct{}
	stopOnce sync.Once
}

func newPeer(id string, opts *Options, decoder codec.Decoder, handler Handler, conn *websocket.Conn) *clientPeer {
	return &clientPeer{
		clientID: id,
		opts:     opts,
		decoder:  decoder,
		handler:  handler,
		conn:     conn,
		writeCh:  make(chan interface{}, writeBufferSize),
		stopCh:   make(chan struct{}),
	}
}

// Run serves the peer until the connection breaks or ctx is done.
func (p *clientPeer) Run(ctx context.Context) {
	ctx = log.WithContext(ctx, "client_id", p.clientID)
	p.decoder.Init()
	defer p.decoder.Destroy()

	if p.opts.MaxMessageSize > 0 {
		p.conn.SetReadLimit(p.opts.MaxMessageSize)
	}
	_ = p.conn.SetReadDeadline(time.Now().Add(p.opts.HeartbeatTimeout))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(p.opts.HeartbeatTimeout))
	})

	wg := sync.WaitGroup{}
	wg.Add(3)
	go func() {
		defer wg.Done()
		p.pingLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		p.readLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		p.writeLoop(ctx)
	}()

	select {
	case <-ctx.Done():
	case <-p.stopCh:
	}
	p.stop()
	// Unblocks ReadMessage in readLoop.
	_ = p.conn.Close()
	wg.Wait()
	log.From(ctx).Infow("Client peer closed")
}

func (p *clientPeer) stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

func (p *clientPeer) pingLoop(ctx context.Context) {
	pingTicker := time.NewTicker(p.opts.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-pingTicker.C:
			if err := p.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeTimeout)); err != nil {
				log.From(ctx).Errorw("Write ping message error", "error", err)
				p.stop()
				return
			}
		}
	}
}

func (p *clientPeer) readLoop(ctx context.Context) {
	defer p.stop()

	for {
		messageType, message, err := p.conn.ReadMessage()
		if err != nil {
			select {
			case <-p.stopCh:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.From(ctx).Errorw("Connection unexpected close", "error", err)
				}
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			p.handleText(ctx, string(message))
		case websocket.BinaryMessage:
			p.safeHandle(ctx, func() { p.handler.OnError(ctx, p, ErrBinaryFrame) })
		}
	}
}

func (p *clientPeer) handleText(ctx context.Context, text string) {
	if !p.decoder.WillDecode(text) {
		log.From(ctx).Debugw("Frame skipped by decoder", "size", len(text))
		return
	}
	msg, err := p.decoder.Decode(text)
	if err != nil {
		p.safeHandle(ctx, func() { p.handler.OnError(ctx, p, err) })
		return
	}
	p.safeHandle(ctx, func() { p.handler.OnMessage(ctx, p, msg) })
}

func (p *clientPeer) safeHandle(ctx context.Context, fn func()) {
	defer func() {
		if err := recover(); err != nil {
			log.From(ctx).Errorw("Handle message panic", "error", err)
		}
	}()

	fn()
}

func (p *clientPeer) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case v := <-p.writeCh:
			text, err := json.Marshal(v)
			if err != nil {
				log.From(ctx).Errorw("Marshal message error", "error", err)
				continue
			}
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err = p.conn.WriteMessage(websocket.TextMessage, text); err != nil {
				log.From(ctx).Errorw("Write message error", "error", err)
				p.stop()
				return
			}
		}
	}
}

// Write queues v for the write loop.
func (p *clientPeer) Write(ctx context.Context, v interface{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopCh:
		return ErrPeerClosed
	case p.writeCh <- v:
		return nil
	}
}
