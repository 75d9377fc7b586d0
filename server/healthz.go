// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/utils/retry"
)

const (
	healthzPath = "/healthz"

	healthzInterval = 100 * time.Millisecond
	healthzTimeout  = 10 * time.Second
)

func (s *apiServer) addHealthzRouter() {
	s.GET(healthzPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (s *apiServer) healthCheck() error {
	// Ping the server to make sure the router is working.
	if err := s.ping(context.Background()); err != nil {
		return errors.WithMessage(err, "healthz check failed")
	}

	return nil
}

func (s *apiServer) healthzURL() string {
	s.mu.Lock()
	addr := s.httpAddr
	s.mu.Unlock()

	host, port := s.options.HTTP.BindAddress, strconv.Itoa(s.options.HTTP.BindPort)
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = strconv.Itoa(tcp.Port)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return fmt.Sprintf("http://%s%s", net.JoinHostPort(host, port), healthzPath)
}

// ping pings the http server until the router answers or the timeout elapses.
func (s *apiServer) ping(ctx context.Context) error {
	url := s.healthzURL()

	return retry.RetryWithTimeout(ctx, healthzInterval, healthzTimeout, func() error {
		if s.isClosed() {
			return nil
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Debug("Waiting for the router deploy", "error", err)
			return retry.RetryableErr
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return retry.RetryableErr
		}
		log.Debug("The router has been deployed successfully.")

		return nil
	})
}
