// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package queue

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/wangtaoking1/go-common/container/set"
)

const (
	HeaderClientID    = "Client-ID"
	HeaderAuthToken   = "X-Auth-Token"
	HeaderProjectID   = "X-Project-Id"
	HeaderContentType = "Content-Type"

	queueNameMaxLen  = 64
	projectIDMaxLen  = 256
	messageTTLMin    = 60 * time.Second
	messageTTLMax    = 1209600 * time.Second
	messageBodyLimit = 256 * 1024
)

var queueNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// reservedHeaders holds canonical names that extra headers may not override.
var reservedHeaders = newHeaderSet(HeaderClientID, HeaderAuthToken, HeaderProjectID, HeaderContentType)

func newHeaderSet(names ...string) set.Set[string] {
	s := set.New[string]()
	for _, name := range names {
		s.Add(http.CanonicalHeaderKey(name))
	}
	return s
}

// Options contains the target queue, the credentials and the message of the publisher.
type Options struct {
	Endpoint  string            `json:"endpoint"   mapstructure:"endpoint"`
	Queue     string            `json:"queue"      mapstructure:"queue"`
	ClientID  string            `json:"client-id"  mapstructure:"client-id"`
	AuthToken string            `json:"-"          mapstructure:"auth-token"`
	ProjectID string            `json:"project-id" mapstructure:"project-id"`
	Headers   map[string]string `json:"headers"    mapstructure:"headers"`

	Body string        `json:"body" mapstructure:"body"`
	TTL  time.Duration `json:"ttl"  mapstructure:"ttl"`

	// Hardening knobs, all disabled by default.
	Timeout       time.Duration `json:"timeout"        mapstructure:"timeout"`
	RetryLimit    int           `json:"retry-limit"    mapstructure:"retry-limit"`
	RetryInterval time.Duration `json:"retry-interval" mapstructure:"retry-interval"`
	CheckStatus   bool          `json:"check-status"   mapstructure:"check-status"`
}

// NewOptions returns the options of the sample publisher.
func NewOptions() *Options {
	return &Options{
		Endpoint:      "http://localhost:8888",
		Queue:         "SampleQueue",
		ClientID:      "355186cd-d1e8-4108-a3ac-a2183697232a",
		AuthToken:     "8444886dd9b04a1b87ddb502b508261c",
		ProjectID:     "7530fad032ca431e9dc8ed4a5de5d99c",
		Body:          "Zaqar Sample",
		RetryLimit:    1,
		RetryInterval: time.Second,
	}
}

// Validate verifies the options against the queue service API restrictions.
func (o *Options) Validate() []error {
	var errs []error

	u, err := url.Parse(o.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("--publisher.endpoint %q must be an absolute http(s) URL", o.Endpoint))
	}
	if len(o.Queue) == 0 || len(o.Queue) > queueNameMaxLen {
		errs = append(errs, fmt.Errorf("--publisher.queue must be 1 to %d characters long", queueNameMaxLen))
	} else if !queueNameRegex.MatchString(o.Queue) {
		errs = append(errs, fmt.Errorf("--publisher.queue may only contain ASCII letters, digits, underscores, and dashes"))
	}
	if _, err := uuid.Parse(o.ClientID); err != nil {
		errs = append(errs, fmt.Errorf("--publisher.client-id %q must be a UUID", o.ClientID))
	}
	if len(o.ProjectID) > projectIDMaxLen {
		errs = append(errs, fmt.Errorf("--publisher.project-id may not be more than %d characters long", projectIDMaxLen))
	}
	for name := range o.Headers {
		if reservedHeaders.Contains(http.CanonicalHeaderKey(name)) {
			errs = append(errs, fmt.Errorf("--publisher.headers can not override %s", name))
		}
	}
	if o.TTL != 0 && (o.TTL < messageTTLMin || o.TTL > messageTTLMax) {
		errs = append(errs, fmt.Errorf("--publisher.ttl must be between %v and %v", messageTTLMin, messageTTLMax))
	}
	if body, _ := json.Marshal(o.Body); len(body) > messageBodyLimit {
		errs = append(errs, fmt.Errorf("--publisher.body may not exceed %d characters", messageBodyLimit))
	}
	if o.Timeout < 0 {
		errs = append(errs, fmt.Errorf("--publisher.timeout cannot be negative"))
	}
	if o.RetryLimit < 1 {
		errs = append(errs, fmt.Errorf("--publisher.retry-limit must be at least 1"))
	}

	return errs
}

// AddFlags adds flags related to the publisher to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Endpoint, "publisher.endpoint", o.Endpoint, "Base URL of the queue service.")
	fs.StringVar(&o.Queue, "publisher.queue", o.Queue, "Name of the queue messages are posted to.")
	fs.StringVar(&o.ClientID, "publisher.client-id", o.ClientID, "Value of the Client-ID header, must be a UUID.")
	fs.StringVar(&o.AuthToken, "publisher.auth-token", o.AuthToken, "Value of the X-Auth-Token header.")
	fs.StringVar(&o.ProjectID, "publisher.project-id", o.ProjectID, "Value of the X-Project-Id header.")
	fs.StringToStringVar(&o.Headers, "publisher.headers", o.Headers, "Extra request headers, e.g. User-Agent=sample.")
	fs.StringVar(&o.Body, "publisher.body", o.Body, "Body of the posted message.")
	fs.DurationVar(&o.TTL, "publisher.ttl", o.TTL, ""+
		"TTL of the posted message, 0 leaves it to the queue service default.")
	fs.DurationVar(&o.Timeout, "publisher.timeout", o.Timeout, "Request timeout, 0 means no timeout.")
	fs.IntVar(&o.RetryLimit, "publisher.retry-limit", o.RetryLimit, "Number of attempts per publish, 1 means no retry.")
	fs.DurationVar(&o.RetryInterval, "publisher.retry-interval", o.RetryInterval, "Interval between publish attempts.")
	fs.BoolVar(&o.CheckStatus, "publisher.check-status", o.CheckStatus, ""+
		"Fail when the queue service answers with a non-2xx status. The response is ignored otherwise.")
}

// MessagesURL returns the URL messages are posted to.
func (o *Options) MessagesURL() string {
	return strings.TrimRight(o.Endpoint, "/") + "/v2/queues/" + url.PathEscape(o.Queue) + "/messages"
}

// RequestHeaders returns the header set of a publish request, without Content-Type.
func (o *Options) RequestHeaders() map[string]string {
	headers := make(map[string]string, len(o.Headers)+3)
	for k, v := range o.Headers {
		headers[k] = v
	}
	headers[HeaderClientID] = o.ClientID
	headers[HeaderAuthToken] = o.AuthToken
	headers[HeaderProjectID] = o.ProjectID

	return headers
}
