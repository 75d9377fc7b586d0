// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package subscriber receives webhook notifications of a queue subscription
// and optionally confirms the subscription.
package subscriber

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wangtaoking1/zaqar-sample/codec"
	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/server"
)

// Install returns the setup func registering the notification route.
func Install(opts *Options, confirmer Confirmer) server.SetupFunc {
	return func(g *gin.Engine) error {
		g.POST(opts.Path, Handler(opts, confirmer))
		log.Infow("Notification receiver installed",
			"method", http.MethodPost, "path", opts.Path, "auto_confirm", opts.AutoConfirm)

		return nil
	}
}

// Handler logs every notification. With auto confirm enabled, confirmation
// notifications are confirmed before "OK" is answered.
func Handler(opts *Options, confirmer Confirmer) gin.HandlerFunc {
	decoder := codec.NewJSONDecoder()

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		data, err := c.GetRawData()
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
		msg, err := decoder.Decode(string(data))
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
		log.From(ctx).Infow("Notification received", "headers", c.Request.Header, "notification", msg)

		if !opts.AutoConfirm {
			c.Status(http.StatusOK)
			return
		}

		confirmation, err := ParseConfirmation(msg)
		switch {
		case errors.Is(err, ErrNotConfirmation):
		case err != nil:
			abort(c, http.StatusBadRequest, err)
			return
		default:
			if err := confirmer.Confirm(ctx, confirmation); err != nil {
				abort(c, http.StatusBadGateway, err)
				return
			}
		}
		c.String(http.StatusOK, "OK")
	}
}

func abort(c *gin.Context, code int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}
