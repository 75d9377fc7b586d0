// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package queue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/zaqar-sample/errors"
)

type capturedRequest struct {
	method  string
	path    string
	headers http.Header
	body    string
}

func newQueueService(t *testing.T, status int) (*httptest.Server, <-chan capturedRequest) {
	t.Helper()

	reqs := make(chan capturedRequest, 16)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs <- capturedRequest{method: r.Method, path: r.URL.Path, headers: r.Header.Clone(), body: string(body)}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"resources":["/v2/queues/SampleQueue/messages/1"]}`))
	}))
	t.Cleanup(ts.Close)
	return ts, reqs
}

func testOptions(endpoint string) *Options {
	opts := NewOptions()
	opts.Endpoint = endpoint
	opts.RetryInterval = time.Millisecond
	return opts
}

func TestPublisher_Publish(t *testing.T) {
	ts, reqs := newQueueService(t, http.StatusCreated)

	p, err := NewPublisher(testOptions(ts.URL), nil)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background()))

	req := <-reqs
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/v2/queues/SampleQueue/messages", req.path)
	assert.Equal(t, "355186cd-d1e8-4108-a3ac-a2183697232a", req.headers.Get("Client-ID"))
	assert.Equal(t, "8444886dd9b04a1b87ddb502b508261c", req.headers.Get("X-Auth-Token"))
	assert.Equal(t, "7530fad032ca431e9dc8ed4a5de5d99c", req.headers.Get("X-Project-Id"))
	assert.Equal(t, "application/json", req.headers.Get("Content-Type"))
	assert.Equal(t, `{"messages":[{"body":"Zaqar Sample"}]}`, req.body)
}

func TestPublisher_PublishWithTTLAndHeaders(t *testing.T) {
	ts, reqs := newQueueService(t, http.StatusCreated)

	opts := testOptions(ts.URL)
	opts.TTL = 300 * time.Second
	opts.Headers = map[string]string{"User-Agent": "zaqar-sample"}
	p, err := NewPublisher(opts, nil)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background()))

	req := <-reqs
	assert.Equal(t, "zaqar-sample", req.headers.Get("User-Agent"))
	assert.JSONEq(t, `{"messages":[{"body":"Zaqar Sample","ttl":300}]}`, req.body)
}

func TestPublisher_ResponseIgnored(t *testing.T) {
	ts, reqs := newQueueService(t, http.StatusServiceUnavailable)

	p, err := NewPublisher(testOptions(ts.URL), nil)
	require.NoError(t, err)
	assert.NoError(t, p.Publish(context.Background()))
	assert.Len(t, reqs, 1)
}

func TestPublisher_CheckStatus(t *testing.T) {
	t.Run("client error is not retried", func(t *testing.T) {
		ts, reqs := newQueueService(t, http.StatusBadRequest)

		opts := testOptions(ts.URL)
		opts.CheckStatus = true
		opts.RetryLimit = 3
		p, err := NewPublisher(opts, nil)
		require.NoError(t, err)

		err = p.Publish(context.Background())
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadRequest, statusErr.Code)
		assert.Len(t, reqs, 1)
	})

	t.Run("server error is retried", func(t *testing.T) {
		ts, reqs := newQueueService(t, http.StatusServiceUnavailable)

		opts := testOptions(ts.URL)
		opts.CheckStatus = true
		opts.RetryLimit = 3
		p, err := NewPublisher(opts, nil)
		require.NoError(t, err)

		assert.Error(t, p.Publish(context.Background()))
		assert.Len(t, reqs, 3)
	})
}

func TestPublisher_TransportError(t *testing.T) {
	ts, _ := newQueueService(t, http.StatusCreated)
	endpoint := ts.URL
	ts.Close()

	p, err := NewPublisher(testOptions(endpoint), nil)
	require.NoError(t, err)
	err = p.Publish(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post message to")
}

type fakeClient struct {
	mu     sync.Mutex
	posts  int
	closed int
	code   int
	err    error
}

func (c *fakeClient) Post(context.Context, string, map[string]string, []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts++
	return c.code, c.err
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func TestPublisher_ReleasesClientOnce(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeClient
		opts    func(*Options)
		wantErr bool
	}{
		{name: "success", client: &fakeClient{code: http.StatusCreated}},
		{name: "transport error", client: &fakeClient{err: io.ErrUnexpectedEOF}, wantErr: true},
		{
			name:    "retried transport error",
			client:  &fakeClient{err: io.ErrUnexpectedEOF},
			opts:    func(o *Options) { o.RetryLimit = 3 },
			wantErr: true,
		},
		{
			name:    "status error",
			client:  &fakeClient{code: http.StatusInternalServerError},
			opts:    func(o *Options) { o.CheckStatus = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions("http://localhost:8888")
			if tt.opts != nil {
				tt.opts(opts)
			}
			var created int32
			p, err := NewPublisher(opts, func(*Options) (Client, error) {
				atomic.AddInt32(&created, 1)
				return tt.client, nil
			})
			require.NoError(t, err)

			err = p.Publish(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.EqualValues(t, 1, created)
			assert.Equal(t, 1, tt.client.closed)
			assert.Equal(t, opts.RetryLimit, tt.client.posts)
		})
	}
}

func TestPublisher_ClientFactoryError(t *testing.T) {
	p, err := NewPublisher(testOptions("http://localhost:8888"), func(*Options) (Client, error) {
		return nil, errors.New("no client")
	})
	require.NoError(t, err)

	err = p.Publish(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no client")
}

func TestPublisher_ContextCanceled(t *testing.T) {
	client := &fakeClient{err: context.Canceled}
	opts := testOptions("http://localhost:8888")
	opts.RetryLimit = 5
	opts.RetryInterval = time.Hour
	p, err := NewPublisher(opts, func(*Options) (Client, error) { return client, nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = p.Publish(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, client.posts)
	assert.Equal(t, 1, client.closed)
}
