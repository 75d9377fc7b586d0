// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"net/http"

	"github.com/wangtaoking1/zaqar-sample/codec"
	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
)

// ErrBinaryFrame is reported to Handler.OnError for binary frames.
var ErrBinaryFrame = errors.New("binary frames are not supported")

// Writer queues a value to be sent to the peer as a JSON text frame.
type Writer interface {
	Write(ctx context.Context, v interface{}) error
}

// Handler receives the decoded frames of a peer. Calls for one peer are
// sequential, calls for different peers may run concurrently.
type Handler interface {
	OnMessage(ctx context.Context, w Writer, msg codec.Message)
	// OnError receives frames that could not be decoded.
	OnError(ctx context.Context, w Writer, err error)
}

// Response is the frame sent back to a peer.
type Response struct {
	Body    map[string]interface{} `json:"body"`
	Headers map[string]interface{} `json:"headers"`
}

// NewResponse builds a response with the given status.
func NewResponse(status int, body map[string]interface{}) *Response {
	if body == nil {
		body = map[string]interface{}{}
	}
	return &Response{
		Body:    body,
		Headers: map[string]interface{}{"status": status},
	}
}

type responseHandler struct{}

// NewResponseHandler returns the default handler. Every decoded message is
// logged and acknowledged with a 200 response echoing its action, if any.
// Decode failures are answered with a 400 response and the connection stays open.
func NewResponseHandler() Handler {
	return responseHandler{}
}

func (responseHandler) OnMessage(ctx context.Context, w Writer, msg codec.Message) {
	log.From(ctx).Infow("Decoded websocket message", "keys", len(msg))

	body := map[string]interface{}{}
	if action, ok := msg["action"]; ok {
		body["action"] = action
	}
	resp := NewResponse(http.StatusOK, body)
	if err := w.Write(ctx, resp); err != nil {
		log.From(ctx).Warnw("Failed to queue response", "error", err)
	}
}

func (responseHandler) OnError(ctx context.Context, w Writer, err error) {
	log.From(ctx).Warnw("Failed to decode websocket message", "error", err)

	resp := NewResponse(http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
	if werr := w.Write(ctx, resp); werr != nil {
		log.From(ctx).Warnw("Failed to queue error response", "error", werr)
	}
}
