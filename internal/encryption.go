// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"crypto/subtle"
	"errors"

	group "github.com/bytemare/crypto"
)

var errXorLength = errors.New("xor input of unequal length")

// Xor returns a new byte slice containing the byte-by-byte xor-ing of the input slices, which must be of the same length.
func Xor(a, b []byte) []byte {
	if len(a) != len(b) {
		panic(errXorLength)
	}

	dst := make([]byte, len(a))
	subtle.XORBytes(dst, a, b)

	return dst
}

// ClearSlice attempts to zero out the slice and sets it to nil.
func ClearSlice(b *[]byte) {
	if b == nil || *b == nil {
		return
	}

	clear(*b)
	*b = nil
}

// ClearScalar attempts to zero out the scalar and sets it to nil.
func ClearScalar(s **group.Scalar) {
	if s == nil || *s == nil {
		return
	}

	(*s).Zero()
	*s = nil
}

// IsAllZeros returns whether all bytes of the input are zero, in constant time.
func IsAllZeros(b []byte) bool {
	return subtle.ConstantTimeCompare(b, make([]byte, len(b))) == 1
}
