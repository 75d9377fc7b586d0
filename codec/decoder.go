// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	"github.com/buger/jsonparser"
)

// Message is a decoded JSON object. Values are the types produced by
// encoding/json with UseNumber: map[string]interface{}, []interface{},
// string, json.Number, bool and nil.
type Message map[string]interface{}

// Decoder converts a text frame into a Message. A transport creates one
// decoder per connection through a Factory, so an instance is never used by
// two connections at once.
type Decoder interface {
	// Init is called once before the first frame of the connection.
	Init()
	// WillDecode reports whether Decode should be attempted for text.
	WillDecode(text string) bool
	// Decode parses text. On failure it returns a *ParseError and a nil Message.
	Decode(text string) (Message, error)
	// Destroy is called once when the connection ends.
	Destroy()
}

// Factory creates a decoder for a new connection.
type Factory func() Decoder

// JSONDecoder decodes text frames holding a single JSON object.
// The zero value is ready to use and safe for concurrent use.
type JSONDecoder struct{}

var _ Decoder = JSONDecoder{}

// NewJSONDecoder returns a JSON object decoder.
func NewJSONDecoder() Decoder {
	return JSONDecoder{}
}

func (JSONDecoder) Init() {}

func (JSONDecoder) Destroy() {}

// WillDecode always returns true. There is no content negotiation: every
// frame, including empty and non-JSON text, is handed to Decode.
func (JSONDecoder) WillDecode(string) bool {
	return true
}

// Decode parses text as a JSON object.
func (JSONDecoder) Decode(text string) (Message, error) {
	data := []byte(text)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, newParseError(text, "empty input")
	}
	if !utf8.ValidString(text) {
		return nil, newParseError(text, "invalid UTF-8")
	}

	_, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, wrapParseError(text, err)
	}
	if dataType != jsonparser.Object {
		return nil, newParseError(text, "expected a JSON object, got "+dataType.String())
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var msg Message
	if err := dec.Decode(&msg); err != nil {
		return nil, wrapParseError(text, err)
	}
	if rest := bytes.TrimSpace(data[dec.InputOffset():]); len(rest) > 0 {
		return nil, newParseError(text, "unexpected data after top-level object")
	}

	return msg, nil
}
