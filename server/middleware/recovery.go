// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wangtaoking1/zaqar-sample/log"
)

// RecoveryName is the registered name of the recovery middleware.
const RecoveryName = "recovery"

// Recovery turns a panic in a handler into a 500 response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.From(c.Request.Context()).Errorw("Handler panicked", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
	})
}
