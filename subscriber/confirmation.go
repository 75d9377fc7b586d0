// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package subscriber

import (
	"github.com/wangtaoking1/zaqar-sample/codec"
	"github.com/wangtaoking1/zaqar-sample/errors"
)

// Keys of a confirmation notification. The URL-* and X-Project-ID values are
// replayed as headers of the confirmation request.
const (
	KeySubscribeURL = "WSGISubscribeURL"
	KeyProjectID    = "X-Project-ID"
	KeyURLMethods   = "URL-Methods"
	KeyURLSignature = "URL-Signature"
	KeyURLPaths     = "URL-Paths"
	KeyURLExpires   = "URL-Expires"
)

// ErrNotConfirmation is returned for notifications without a subscribe URL.
var ErrNotConfirmation = errors.New("not a subscription confirmation")

// Confirmation is the signed request data carried by a confirmation notification.
type Confirmation struct {
	URL       string
	ProjectID string
	Methods   string
	Signature string
	Paths     string
	Expires   string
}

// ParseConfirmation extracts the confirmation data of a notification.
func ParseConfirmation(msg codec.Message) (*Confirmation, error) {
	if _, ok := msg[KeySubscribeURL]; !ok {
		return nil, ErrNotConfirmation
	}

	var missing []string
	get := func(key string) string {
		v, ok := msg[key].(string)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}
	c := &Confirmation{
		URL:       get(KeySubscribeURL),
		ProjectID: get(KeyProjectID),
		Methods:   get(KeyURLMethods),
		Signature: get(KeyURLSignature),
		Paths:     get(KeyURLPaths),
		Expires:   get(KeyURLExpires),
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("confirmation notification: missing or invalid %v", missing)
	}

	return c, nil
}

// Headers returns the signed headers of the confirmation request.
func (c *Confirmation) Headers() map[string]string {
	return map[string]string{
		KeyProjectID:    c.ProjectID,
		KeyURLMethods:   c.Methods,
		KeyURLSignature: c.Signature,
		KeyURLPaths:     c.Paths,
		KeyURLExpires:   c.Expires,
	}
}
