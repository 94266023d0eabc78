// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package codec encodes pivot cache snapshots for storage and transport.
package codec

import (
	"fmt"

	"github.com/xuri/pivotcache"
)

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Snapshot is a codec of pivot cache snapshots.
type Snapshot = Codec[*pivotcache.CacheSnapshot]

// ForFormat returns the snapshot codec of a format name: "json", "msgpack"
// or "cbor".
func ForFormat(format string) (Snapshot, error) {
	switch format {
	case "", "json":
		return JSON[*pivotcache.CacheSnapshot]{}, nil
	case "msgpack":
		return Msgpack[*pivotcache.CacheSnapshot]{}, nil
	case "cbor":
		return NewCBOR[*pivotcache.CacheSnapshot](true)
	}
	return nil, fmt.Errorf("%w: unknown format %q", pivotcache.ErrParameterInvalid, format)
}
