// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package queue

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/wangtaoking1/zaqar-sample/log"
)

const contentTypeJSON = "application/json"

// Client posts a request and reports the response status. The response body is never read.
type Client interface {
	Post(ctx context.Context, url string, headers map[string]string, body []byte) (int, error)
	Close() error
}

// ClientFactory creates a client for a single publish.
type ClientFactory func(opts *Options) (Client, error)

type restyClient struct {
	client *resty.Client
}

var _ Client = (*restyClient)(nil)

// NewRestyClient creates a Client backed by its own resty client and transport.
func NewRestyClient(opts *Options) (Client, error) {
	c := resty.New().
		SetLogger(restyLogger{}).
		SetTimeout(opts.Timeout).
		SetDoNotParseResponse(true)
	return &restyClient{client: c}, nil
}

// Post sends header names exactly as given, without canonicalizing them.
func (c *restyClient) Post(ctx context.Context, url string, headers map[string]string, body []byte) (int, error) {
	req := c.client.R().
		SetContext(ctx).
		SetBody(body)
	for name, value := range headers {
		req.Header[name] = []string{value}
	}
	req.Header[HeaderContentType] = []string{contentTypeJSON}

	resp, err := req.Post(url)
	if err != nil {
		return 0, err
	}
	if raw := resp.RawBody(); raw != nil {
		_ = raw.Close()
	}
	return resp.StatusCode(), nil
}

// Close releases the idle connections held by the transport.
func (c *restyClient) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) { log.Errorf(format, v...) }
func (restyLogger) Warnf(format string, v ...interface{})  { log.Warnf(format, v...) }
func (restyLogger) Debugf(format string, v ...interface{}) { log.Debugf(format, v...) }
