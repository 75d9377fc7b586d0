// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package codec turns raw text frames into structured messages.
//
// A Decoder is registered with a transport (see package websocket) that
// hands it every inbound text frame. WillDecode is consulted first and
// Decode is only called when it reports true.
package codec
