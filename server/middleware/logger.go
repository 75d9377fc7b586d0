// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wangtaoking1/zaqar-sample/log"
)

// LoggerName is the registered name of the access log middleware.
const LoggerName = "logger"

// Logger logs every request once it is served.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		kvs := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client", c.ClientIP(),
		}
		logger := log.From(c.Request.Context())
		if len(c.Errors) != 0 {
			logger.Errorw("Request failed", append(kvs, "error", c.Errors.String())...)
			return
		}
		logger.Infow("Request served", kvs...)
	}
}
