// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package codec

import "encoding/json"

// JSON is a Codec that serializes values as indented JSON.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
