// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package queue

import (
	"fmt"
	"net/http"

	"github.com/wangtaoking1/zaqar-sample/utils"
)

// StatusError is returned for a non-2xx response when status checking is enabled.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("post %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Is reports client errors as not retryable.
func (e *StatusError) Is(target error) bool {
	return target == utils.NotRetryErr && e.Code < http.StatusInternalServerError
}
