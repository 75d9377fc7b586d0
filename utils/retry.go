// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package utils

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// NotRetryErr is an error that should not retry.
var NotRetryErr = errors.New("not retry error")

// Retry try exec a function with limit times. A limit below one still runs f once.
func Retry(ctx context.Context, retryLimit int, interval time.Duration, f func() error) error {
	if retryLimit < 1 {
		retryLimit = 1
	}

	var err error
	for i := 0; i < retryLimit; i++ {
		err = f()
		if err == nil {
			return nil
		}
		if errors.Is(err, NotRetryErr) || i == retryLimit-1 {
			return err
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(interval):
		}
	}
	return err
}
