// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/zaqar-sample/codec"
	"github.com/wangtaoking1/zaqar-sample/errors"
)

type recordingHandler struct {
	messages chan codec.Message
	errs     chan error
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		messages: make(chan codec.Message, 10),
		errs:     make(chan error, 10),
	}
}

func (h *recordingHandler) OnMessage(ctx context.Context, w Writer, msg codec.Message) {
	h.messages <- msg
}

func (h *recordingHandler) OnError(ctx context.Context, w Writer, err error) {
	h.errs <- err
}

type countingDecoder struct {
	codec.JSONDecoder
	inits, destroys atomic.Int32
	accept          bool
}

func (d *countingDecoder) Init()                  { d.inits.Add(1) }
func (d *countingDecoder) Destroy()               { d.destroys.Add(1) }
func (d *countingDecoder) WillDecode(string) bool { return d.accept }

type countingFactory struct {
	mtx      sync.Mutex
	decoders []*countingDecoder
}

func (f *countingFactory) New() codec.Decoder {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	d := &countingDecoder{}
	f.decoders = append(f.decoders, d)
	return d
}

func (f *countingFactory) created() []*countingDecoder {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return append([]*countingDecoder(nil), f.decoders...)
}

func startServer(t *testing.T, newDecoder codec.Factory, handler Handler) (*Server, string) {
	t.Helper()

	s := NewServer(newDecoder, handler, NewOptions())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Close(ctx)
		ts.Close()
	})
	return s, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c, err := Dial(ctx, url+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func readResponse(t *testing.T, c *Client) codec.Message {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := c.Read(ctx)
	require.NoError(t, err)
	return msg
}

func TestServer_DecodesTextFrames(t *testing.T) {
	h := newRecordingHandler()
	_, url := startServer(t, nil, h)
	c := dial(t, url)

	require.NoError(t, c.WriteText(`{"key":"value"}`))
	select {
	case msg := <-h.messages:
		assert.Equal(t, codec.Message{"key": "value"}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestServer_DecodeErrorReachesHandler(t *testing.T) {
	h := newRecordingHandler()
	_, url := startServer(t, nil, h)
	c := dial(t, url)

	require.NoError(t, c.WriteText("not-json"))
	select {
	case err := <-h.errs:
		var perr *codec.ParseError
		assert.True(t, errors.As(err, &perr))
		assert.Equal(t, "not-json", perr.Input)
	case <-time.After(2 * time.Second):
		t.Fatal("error not delivered")
	}
	assert.Empty(t, h.messages)
}

func TestServer_BinaryFrame(t *testing.T) {
	h := newRecordingHandler()
	_, url := startServer(t, nil, h)
	c := dial(t, url)

	c.writeMtx.Lock()
	err := c.conn.WriteMessage(websocket.BinaryMessage, []byte{0x01})
	c.writeMtx.Unlock()
	require.NoError(t, err)

	select {
	case err := <-h.errs:
		assert.ErrorIs(t, err, ErrBinaryFrame)
	case <-time.After(2 * time.Second):
		t.Fatal("error not delivered")
	}
}

func TestServer_ResponseHandler(t *testing.T) {
	_, url := startServer(t, nil, nil)
	c := dial(t, url)

	require.NoError(t, c.WriteText("{"))
	resp := readResponse(t, c)
	assert.Equal(t, json.Number("400"), resp["headers"].(map[string]interface{})["status"])
	assert.Contains(t, resp["body"].(map[string]interface{})["error"], "decode")

	// The connection survives a bad frame.
	require.NoError(t, c.WriteText(`{"action":"message_post","body":{}}`))
	resp = readResponse(t, c)
	assert.Equal(t, json.Number("200"), resp["headers"].(map[string]interface{})["status"])
	assert.Equal(t, "message_post", resp["body"].(map[string]interface{})["action"])

	// Messages without an action are acknowledged too.
	require.NoError(t, c.WriteText(`{"key":"value"}`))
	resp = readResponse(t, c)
	assert.Equal(t, json.Number("200"), resp["headers"].(map[string]interface{})["status"])
	assert.Empty(t, resp["body"])
}

func TestServer_DecoderPerPeer(t *testing.T) {
	f := &countingFactory{}
	h := newRecordingHandler()
	s, url := startServer(t, f.New, h)
	c1 := dial(t, url)
	c2 := dial(t, url)

	require.NoError(t, c1.WriteText(`{"key":"value"}`))
	require.NoError(t, c2.WriteText(`{"key":"value"}`))
	time.Sleep(50 * time.Millisecond)

	// The counting decoder skips every frame.
	assert.Empty(t, h.messages)
	assert.Empty(t, h.errs)

	decoders := f.created()
	require.Len(t, decoders, 2)
	assert.NotSame(t, decoders[0], decoders[1])
	for _, d := range decoders {
		assert.Equal(t, int32(1), d.inits.Load())
		assert.Zero(t, d.destroys.Load())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))
	for _, d := range decoders {
		assert.Equal(t, int32(1), d.inits.Load())
		assert.Equal(t, int32(1), d.destroys.Load())
	}

	_, err := c1.Read(ctx)
	assert.Error(t, err)
}

func TestServer_HealthCheck(t *testing.T) {
	s := NewServer(nil, nil, NewOptions())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, healthCheckPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptions_Validate(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())

	opts.BindPort = 0
	opts.Path = "ws"
	opts.MaxMessageSize = -1
	opts.PingInterval = opts.HeartbeatTimeout
	assert.Len(t, opts.Validate(), 4)

	opts.Enabled = false
	assert.Empty(t, opts.Validate())
}
