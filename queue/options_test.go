// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package queue

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())
	assert.Equal(t, "http://localhost:8888/v2/queues/SampleQueue/messages", opts.MessagesURL())
	assert.Equal(t, map[string]string{
		"Client-ID":    "355186cd-d1e8-4108-a3ac-a2183697232a",
		"X-Auth-Token": "8444886dd9b04a1b87ddb502b508261c",
		"X-Project-Id": "7530fad032ca431e9dc8ed4a5de5d99c",
	}, opts.RequestHeaders())
}

func TestOptions_MessagesURL(t *testing.T) {
	opts := NewOptions()
	opts.Endpoint = "https://queue.example.com:443/"
	opts.Queue = "fizbit"
	assert.Equal(t, "https://queue.example.com:443/v2/queues/fizbit/messages", opts.MessagesURL())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		errMsg string
	}{
		{name: "relative endpoint", modify: func(o *Options) { o.Endpoint = "/v2" }, errMsg: "endpoint"},
		{name: "ftp endpoint", modify: func(o *Options) { o.Endpoint = "ftp://localhost" }, errMsg: "endpoint"},
		{name: "empty queue", modify: func(o *Options) { o.Queue = "" }, errMsg: "1 to 64"},
		{name: "long queue", modify: func(o *Options) { o.Queue = strings.Repeat("q", 65) }, errMsg: "1 to 64"},
		{name: "queue charset", modify: func(o *Options) { o.Queue = "fiz bit" }, errMsg: "ASCII"},
		{name: "client id", modify: func(o *Options) { o.ClientID = "sample" }, errMsg: "UUID"},
		{name: "project id", modify: func(o *Options) { o.ProjectID = strings.Repeat("p", 257) }, errMsg: "256"},
		{name: "reserved header", modify: func(o *Options) { o.Headers = map[string]string{"client-id": "x"} }, errMsg: "override"},
		{name: "short ttl", modify: func(o *Options) { o.TTL = 59 * time.Second }, errMsg: "ttl"},
		{name: "long ttl", modify: func(o *Options) { o.TTL = 1209601 * time.Second }, errMsg: "ttl"},
		{name: "large body", modify: func(o *Options) { o.Body = strings.Repeat("b", 256*1024) }, errMsg: "body"},
		{name: "negative timeout", modify: func(o *Options) { o.Timeout = -time.Second }, errMsg: "timeout"},
		{name: "retry limit", modify: func(o *Options) { o.RetryLimit = 0 }, errMsg: "retry-limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions()
			tt.modify(opts)
			errs := opts.Validate()
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tt.errMsg)
		})
	}
}

func TestOptions_ValidBoundaries(t *testing.T) {
	opts := NewOptions()
	opts.Queue = strings.Repeat("q", 64)
	opts.ProjectID = strings.Repeat("p", 256)
	opts.TTL = 60 * time.Second
	opts.Headers = map[string]string{"User-Agent": "zaqar-sample"}
	assert.Empty(t, opts.Validate())

	opts.TTL = 1209600 * time.Second
	assert.Empty(t, opts.Validate())
}

func TestOptions_AddFlags(t *testing.T) {
	opts := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"--publisher.endpoint=http://queue:8888",
		"--publisher.queue=fizbit",
		"--publisher.headers=User-Agent=sample",
		"--publisher.check-status",
	}))
	assert.Equal(t, "http://queue:8888/v2/queues/fizbit/messages", opts.MessagesURL())
	assert.Equal(t, map[string]string{"User-Agent": "sample"}, opts.Headers)
	assert.True(t, opts.CheckStatus)
}
