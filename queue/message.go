// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package queue

import (
	"encoding/json"
	"time"
)

// Message is a single message in a post request.
type Message struct {
	Body string `json:"body"`
	TTL  int64  `json:"ttl,omitempty"`
}

// PostRequest is the body of a post messages request.
type PostRequest struct {
	Messages []Message `json:"messages"`
}

// NewPostRequest returns a request carrying one message. A zero ttl is omitted.
func NewPostRequest(body string, ttl time.Duration) *PostRequest {
	return &PostRequest{
		Messages: []Message{{Body: body, TTL: int64(ttl / time.Second)}},
	}
}

// Marshal encodes the request as compact JSON.
func (r *PostRequest) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
