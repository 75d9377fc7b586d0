// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package subscriber

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/wangtaoking1/zaqar-sample/errors"
	"github.com/wangtaoking1/zaqar-sample/log"
)

const contentTypeJSON = "application/json"

// Confirmer confirms a subscription.
type Confirmer interface {
	Confirm(ctx context.Context, c *Confirmation) error
}

type confirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

type restyConfirmer struct {
	client *resty.Client
}

var _ Confirmer = (*restyConfirmer)(nil)

// NewConfirmer creates a Confirmer sending PUT requests with resty.
func NewConfirmer(opts *Options) Confirmer {
	return &restyConfirmer{
		client: resty.New().SetTimeout(opts.ConfirmTimeout),
	}
}

// Confirm puts {"confirmed":true} to the subscribe URL with a fresh Client-ID.
// Header names are sent as written.
func (r *restyConfirmer) Confirm(ctx context.Context, c *Confirmation) error {
	req := r.client.R().
		SetContext(ctx).
		SetBody(confirmRequest{Confirmed: true})
	for name, value := range c.Headers() {
		req.Header[name] = []string{value}
	}
	req.Header["Accept"] = []string{contentTypeJSON}
	req.Header["Content-Type"] = []string{contentTypeJSON}
	req.Header["Client-ID"] = []string{uuid.NewString()}

	resp, err := req.Put(c.URL)
	if err != nil {
		return errors.Wrap(err, "confirm subscription")
	}
	if resp.StatusCode() >= 300 {
		return errors.Errorf("confirm subscription at %s: unexpected status %d", c.URL, resp.StatusCode())
	}
	log.From(ctx).Infow("Subscription confirmed", "url", c.URL, "status", resp.StatusCode())

	return nil
}
