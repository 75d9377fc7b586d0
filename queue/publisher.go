// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package queue

import (
	"context"
	"time"

	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
	"github.com/wangtaoking1/zaqar-sample/utils"
)

// Publisher posts the configured message to the configured queue.
type Publisher struct {
	opts      *Options
	newClient ClientFactory
	url       string
	headers   map[string]string
	body      []byte
}

// NewPublisher creates a publisher. A nil factory uses NewRestyClient.
func NewPublisher(opts *Options, factory ClientFactory) (*Publisher, error) {
	if errs := opts.Validate(); len(errs) != 0 {
		return nil, errors.NewAggregate(errs)
	}
	if factory == nil {
		factory = NewRestyClient
	}

	body, err := NewPostRequest(opts.Body, opts.TTL).Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal post request")
	}

	return &Publisher{
		opts:      opts,
		newClient: factory,
		url:       opts.MessagesURL(),
		headers:   opts.RequestHeaders(),
		body:      body,
	}, nil
}

// URL returns the target of the publisher.
func (p *Publisher) URL() string {
	return p.url
}

// Publish posts the message once per attempt. The client is released before returning.
func (p *Publisher) Publish(ctx context.Context) error {
	client, err := p.newClient(p.opts)
	if err != nil {
		return errors.Wrap(err, "create queue client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.From(ctx).Warnw("Failed to close queue client", "error", err)
		}
	}()

	return utils.Retry(ctx, p.opts.RetryLimit, p.opts.RetryInterval, func() error {
		return p.post(ctx, client)
	})
}

func (p *Publisher) post(ctx context.Context, client Client) error {
	start := time.Now()
	code, err := client.Post(ctx, p.url, p.headers, p.body)
	if err != nil {
		return errors.Wrapf(err, "post message to %s", p.url)
	}
	log.From(ctx).Debugw("Message posted", "url", p.url, "status", code, "latency", time.Since(start))

	if p.opts.CheckStatus && (code < 200 || code > 299) {
		return &StatusError{URL: p.url, Code: code}
	}
	return nil
}
