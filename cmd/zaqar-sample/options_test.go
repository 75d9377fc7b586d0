// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	opts := NewOptions()
	require.NoError(t, opts.Complete())
	assert.Empty(t, opts.Validate())
	assert.Equal(t, appName, opts.Log.Name)
	assert.Equal(t, "http://localhost:8888/v2/queues/SampleQueue/messages", opts.Publisher.MessagesURL())
	assert.Equal(t, "/", opts.Trigger.Path)
}

func TestOptions_Flags(t *testing.T) {
	opts := NewOptions()
	fss := opts.Flags()
	assert.Equal(t, []string{"generic", "log", "server", "trigger", "websocket", "publisher"}, fss.Order)

	fs := fss.FlagSet("publisher")
	require.NoError(t, fs.Parse([]string{"--publisher.queue=fizbit", "--publisher.ttl=5m"}))
	assert.Equal(t, "fizbit", opts.Publisher.Queue)
	assert.Empty(t, opts.Validate())
}

func TestOptions_Validate(t *testing.T) {
	opts := NewOptions()
	opts.ShutdownTimeout = 0
	opts.Publisher.ClientID = "sample"
	opts.Trigger.Path = "publish"

	assert.Len(t, opts.Validate(), 3)
}

func TestOptions_StringHidesToken(t *testing.T) {
	opts := NewOptions()
	s := opts.String()
	assert.Contains(t, s, `"queue":"SampleQueue"`)
	assert.NotContains(t, s, opts.Publisher.AuthToken)
}

func TestSubCommandOptions(t *testing.T) {
	assert.Empty(t, NewPublishOptions().Validate())
	assert.Empty(t, NewBenchOptions().Validate())

	bench := NewBenchOptions()
	bench.Bench.Workers = 0
	assert.Len(t, bench.Validate(), 1)

	assert.Equal(t, []string{"bench", "log", "publisher"}, bench.Flags().Order)
}

func TestCommands(t *testing.T) {
	publish := publishCommand().Command()
	assert.Equal(t, "publish", publish.Name())
	assert.NotNil(t, publish.Flags().Lookup("publisher.endpoint"))

	bench := benchCommand().Command()
	assert.NotNil(t, bench.Flags().Lookup("bench.workers"))
	assert.NotNil(t, bench.Flags().Lookup("publisher.check-status"))
}

func TestSubscribeOptions(t *testing.T) {
	opts := NewSubscribeOptions()
	assert.Empty(t, opts.Validate())
	assert.Equal(t, 5678, opts.Server.HTTP.BindPort)
	assert.False(t, opts.Subscriber.AutoConfirm)

	fss := opts.Flags()
	assert.Equal(t, []string{"generic", "subscriber", "log", "server"}, fss.Order)
	require.NoError(t, fss.FlagSet("subscriber").Parse([]string{"--subscriber.auto-confirm", "--subscriber.path=/notify"}))
	assert.True(t, opts.Subscriber.AutoConfirm)
	assert.Equal(t, "/notify", opts.Subscriber.Path)

	opts.ShutdownTimeout = 0
	opts.Subscriber.Path = "notify"
	assert.Len(t, opts.Validate(), 2)
}
