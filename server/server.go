// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/server/middleware"
)

// APIServer is the interface of the api server.
type APIServer interface {
	// Setup setups the server engine, like custom routers or middlewares.
	// Setup should be called before Run.
	Setup(SetupFunc) error
	// Handler returns the engine serving the requests.
	Handler() http.Handler
	// Run starts the api server engine and blocks until it is closed.
	Run() error
	// Close shutdowns the api server engine.
	Close(ctx context.Context) error
}

// SetupFunc is the func used to set up the engine.
type SetupFunc func(g *gin.Engine) error

type apiServer struct {
	*gin.Engine

	options *Options

	mu                      sync.Mutex
	httpServer, httpsServer *http.Server
	httpAddr                net.Addr
	closed                  bool
}

// New returns a new api server instance.
func New(options *Options) APIServer {
	if options == nil {
		return nil
	}

	gin.SetMode(gin.ReleaseMode)

	s := &apiServer{
		options: options,
		Engine:  gin.New(),
	}

	s.initServer()

	return s
}

func (s *apiServer) initServer() {
	s.setupGlobalMiddlewares()
	s.setupGlobalRouters()
}

func (s *apiServer) setupGlobalMiddlewares() {
	installed := make([]string, 0, len(s.options.Middlewares))
	for _, m := range s.options.Middlewares {
		mw := middleware.Get(m)
		if m == middleware.CORSName && len(s.options.CORSAllowOrigins) != 0 {
			mw = middleware.CORS(s.options.CORSAllowOrigins)
		}
		if mw == nil {
			log.Warnf("Middleware %s can not found", m)

			continue
		}
		installed = append(installed, m)
		s.Use(mw)
	}
	if len(installed) != 0 {
		log.Infof("Installed middlewares: %s", strings.Join(installed, ","))
	}
}

func (s *apiServer) setupGlobalRouters() {
	if s.options.Healthz {
		s.addHealthzRouter()
	}

	if s.options.Metrics {
		prometheus := ginprometheus.NewPrometheus("zaqar_sample")
		prometheus.Use(s.Engine)
	}

	if s.options.Profiling {
		pprof.Register(s.Engine)
	}
}

func (s *apiServer) Setup(setupFunc SetupFunc) error {
	if setupFunc == nil {
		return nil
	}

	return setupFunc(s.Engine)
}

func (s *apiServer) Handler() http.Handler {
	return s.Engine
}

//nolint:gosec
func (s *apiServer) Run() error {
	httpListener, err := net.Listen("tcp", s.options.HTTP.Address())
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.options.HTTP.Address())
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return httpListener.Close()
	}
	s.httpAddr = httpListener.Addr()
	s.httpServer = &http.Server{Handler: s}
	if s.options.HTTPS.Enabled {
		s.httpsServer = &http.Server{Addr: s.options.HTTPS.Address(), Handler: s}
	}
	httpServer, httpsServer := s.httpServer, s.httpsServer
	s.mu.Unlock()

	var eg errgroup.Group
	eg.Go(func() error {
		log.Infof("Start to listening on http server: %s", httpListener.Addr())

		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve http")
		}
		log.Infof("Server on %s stopped", httpListener.Addr())

		return nil
	})

	if httpsServer != nil {
		eg.Go(func() error {
			key, cert := s.options.HTTPS.TLS.KeyFile, s.options.HTTPS.TLS.CertFile

			log.Infof("Start to listening on https server: %s", s.options.HTTPS.Address())

			if err := httpsServer.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "serve https")
			}
			log.Infof("Server on %s stopped", s.options.HTTPS.Address())

			return nil
		})
	}

	if s.options.Healthz {
		if err := s.healthCheck(); err != nil {
			_ = s.Close(context.Background())
			_ = eg.Wait()

			return err
		}
	}

	return eg.Wait()
}

func (s *apiServer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

func (s *apiServer) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	httpServer, httpsServer := s.httpServer, s.httpsServer
	s.mu.Unlock()

	var errs []error
	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, errors.Wrap(err, "shutdown http server"))
		}
		log.Infof("HTTP server on %s stopped", s.options.HTTP.Address())
	}

	if httpsServer != nil {
		if err := httpsServer.Shutdown(ctx); err != nil {
			errs = append(errs, errors.Wrap(err, "shutdown https server"))
		}
		log.Infof("HTTPS server on %s stopped", s.options.HTTPS.Address())
	}

	return errors.NewAggregate(errs)
}
