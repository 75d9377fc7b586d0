// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wangtaoking1/zaqar-sample/log"
)

const (
	// RequestIDName is the registered name of the request id middleware.
	RequestIDName = "requestid"
	// XRequestIDKey is the header and context key carrying the request id.
	XRequestIDKey = "X-Request-Id"
)

// RequestID reuses the X-Request-Id of the request or generates one. The id is
// echoed in the response and attached to the request scoped logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(XRequestIDKey)
		if rid == "" {
			rid = uuid.NewString()
			c.Request.Header.Set(XRequestIDKey, rid)
		}
		c.Set(XRequestIDKey, rid)
		c.Writer.Header().Set(XRequestIDKey, rid)
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context(), "request-id", rid))

		c.Next()
	}
}

// GetRequestID returns the request id set by the RequestID middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(XRequestIDKey)
}
