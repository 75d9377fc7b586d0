// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/wangtaoking1/zaqar-sample/errors"
)

// maxQuoted bounds how much of the input a ParseError repeats.
const maxQuoted = 64

// ErrParse is matched by every *ParseError through errors.Is.
var ErrParse = errors.New("parse error")

// ParseError reports text that is not a well-formed JSON object.
type ParseError struct {
	Input  string
	Reason string
	Err    error
}

func newParseError(input, reason string) *ParseError {
	return &ParseError{Input: input, Reason: reason}
}

func wrapParseError(input string, err error) *ParseError {
	return &ParseError{Input: input, Reason: err.Error(), Err: err}
}

func (e *ParseError) Error() string {
	in := e.Input
	if len(in) > maxQuoted {
		in = in[:maxQuoted] + "..."
	}

	return fmt.Sprintf("decode %q: %s", in, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
