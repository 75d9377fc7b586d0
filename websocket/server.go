// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wangtaoking1/zaqar-sample/codec"
	"github.com/wangtaoking1/zaqar-sample/log"
)

const healthCheckPath = "/health_check"

// Server upgrades requests on the configured path and feeds every text frame
// through a decoder.
type Server struct {
	opts *Options

	httpServer *http.Server
	newDecoder codec.Factory
	handler    Handler
	upgrader   websocket.Upgrader

	mtx       sync.Mutex
	closed    bool
	closing   chan struct{}
	closeOnce sync.Once
	peers     sync.WaitGroup
}

// NewServer creates a websocket server. Every peer gets its own decoder from
// newDecoder. A nil factory falls back to the JSON decoder and a nil handler
// to NewResponseHandler.
func NewServer(newDecoder codec.Factory, handler Handler, opts *Options) *Server {
	if newDecoder == nil {
		newDecoder = codec.NewJSONDecoder
	}
	if handler == nil {
		handler = NewResponseHandler()
	}
	s := &Server{
		opts:       opts,
		newDecoder: newDecoder,
		handler:    handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  opts.ReadBufferSize,
			WriteBufferSize: opts.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			EnableCompression: opts.Compression,
		},
		closing: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(healthCheckPath, s.handleHealth)
	mux.HandleFunc(opts.Path, s.handleStream)
	s.httpServer = &http.Server{
		Addr:    opts.Address(),
		Handler: mux,
	}

	return s
}

// Handler returns the http handler serving the health check and the stream path.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens and serves until Close is called.
//
//nolint:gosec
func (s *Server) Run() error {
	log.Infow("Start to listening on websocket server", "address", s.httpServer.Addr, "path", s.opts.Path)
	defer log.Infow("Websocket server closed", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops accepting connections and disconnects every peer.
func (s *Server) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.mtx.Lock()
		s.closed = true
		s.mtx.Unlock()
		close(s.closing)
	})
	err := s.httpServer.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.peers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("Timed out waiting for websocket peers")
	}
	return err
}

func (s *Server) handleHealth(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
}

func (s *Server) handleStream(writer http.ResponseWriter, request *http.Request) {
	id := request.URL.Query().Get("uuid")
	if len(id) == 0 {
		id = uuid.New().String()
	}
	ip := request.Header.Get("True-Client-IP")
	if len(ip) == 0 {
		ip = request.RemoteAddr
	}
	log.Infow("Websocket request",
		"client_id", id,
		"url", request.URL.Path,
		"real_ip", ip,
	)
	conn, err := s.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		log.Warnw("Upgrade websocket request error", "client_id", id, "error", err)
		return
	}

	if !s.addPeer() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server is closing"), time.Now().Add(writeTimeout))
		_ = conn.Close()
		return
	}
	defer s.peers.Done()

	ctx, cancel := context.WithCancel(request.Context())
	defer cancel()
	go func() {
		select {
		case <-s.closing:
			cancel()
		case <-ctx.Done():
		}
	}()

	newPeer(id, s.opts, s.newDecoder(), s.handler, conn).Run(ctx)
}

func (s *Server) addPeer() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return false
	}
	s.peers.Add(1)
	return true
}
