// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wangtaoking1/zaqar-sample/codec"
	"github.com/wangtaoking1/zaqar-sample/errors"
)

// Client is a minimal websocket client whose inbound frames go through the
// same decoder as the server side.
type Client struct {
	conn    *websocket.Conn
	decoder codec.Decoder

	// gorilla allows one concurrent writer.
	writeMtx  sync.Mutex
	closeOnce sync.Once
}

// Dial connects to url, e.g. ws://127.0.0.1:6060/ws.
func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}

	decoder := codec.NewJSONDecoder()
	decoder.Init()
	return &Client{conn: conn, decoder: decoder}, nil
}

// WriteText sends a raw text frame.
func (c *Client) WriteText(text string) error {
	c.writeMtx.Lock()
	defer c.writeMtx.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Read waits for the next text frame and decodes it. Decode failures are
// returned as *codec.ParseError.
func (c *Client) Read(ctx context.Context) (codec.Message, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetReadDeadline(deadline)
	} else {
		_ = c.conn.SetReadDeadline(time.Time{})
	}

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		text := string(data)
		if !c.decoder.WillDecode(text) {
			continue
		}
		return c.decoder.Decode(text)
	}
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMtx.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
		c.writeMtx.Unlock()

		c.decoder.Destroy()
		err = c.conn.Close()
	})
	return err
}
