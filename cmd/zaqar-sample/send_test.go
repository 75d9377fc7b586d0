// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/zaqar-sample/websocket"
)

func TestSend(t *testing.T) {
	s := websocket.NewServer(nil, nil, websocket.NewOptions())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Close(ctx)
		ts.Close()
	})

	opts := NewSendOptions()
	opts.URL = "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	require.Empty(t, opts.Validate())
	assert.NoError(t, send(opts))

	opts.Text = "not-json"
	assert.NoError(t, send(opts))

	opts.Text = `{"key":"value"}`
	opts.Timeout = time.Second
	assert.NoError(t, send(opts))
}

func TestSend_NoServer(t *testing.T) {
	opts := NewSendOptions()
	opts.URL = "ws://127.0.0.1:1/ws"
	opts.Timeout = time.Second
	assert.Error(t, send(opts))
}

func TestSendOptions_Validate(t *testing.T) {
	opts := NewSendOptions()
	opts.URL = "http://127.0.0.1:6060/ws"
	opts.Timeout = 0
	assert.Len(t, opts.Validate(), 2)
}
