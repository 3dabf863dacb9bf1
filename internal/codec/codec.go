// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codec holds the CBOR configuration shared by the pointer
// marshalers and the content hash.
package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer encoding, no indefinite-length items. Equal
// values always encode to identical bytes, which ContentHash relies on.
var encMode cbor.EncMode

// decMode decodes standard CBOR; untyped maps decode as map[string]any.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to deterministic CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Sum is a 256-bit BLAKE3 digest.
type Sum [32]byte

// Hash returns the BLAKE3 digest of v's deterministic CBOR encoding.
func Hash(v any) (Sum, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return Sum{}, err
	}
	return blake3.Sum256(data), nil
}
