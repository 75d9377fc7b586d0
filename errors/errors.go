// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package errors re-exports github.com/pkg/errors together with the error
// aggregate used by option validation.
package errors

import (
	goerrors "errors"

	"github.com/pkg/errors"
)

var (
	New          = errors.New
	Errorf       = errors.Errorf
	Wrap         = errors.Wrap
	Wrapf        = errors.Wrapf
	WithMessage  = errors.WithMessage
	WithMessagef = errors.WithMessagef
	WithStack    = errors.WithStack
	Cause        = errors.Cause
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return goerrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return goerrors.As(err, target) }
