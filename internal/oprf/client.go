// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package oprf

import (
	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal/encoding"
)

// Blind masks the input with a fresh random blind, and returns the blind and the blinded element.
func (o *OPRF) Blind(input []byte) (*group.Scalar, *group.Element, error) {
	return o.BlindWith(input, o.group.NewScalar().Random())
}

// BlindWith masks the input with the given blind.
func (o *OPRF) BlindWith(input []byte, blind *group.Scalar) (*group.Scalar, *group.Element, error) {
	if blind.IsZero() {
		return nil, nil, ErrZeroBlind
	}

	p := o.HashToGroup(input)
	if p.IsIdentity() {
		return nil, nil, ErrInvalidInput
	}

	return blind, p.Multiply(blind), nil
}

// Finalize terminates the OPRF by unblinding the evaluation and hashing the transcript.
func (o *OPRF) Finalize(input []byte, blind *group.Scalar, evaluated *group.Element) []byte {
	inverted := blind.Copy().Invert()
	unblinded := evaluated.Copy().Multiply(inverted)

	return o.hashTranscript(input, encoding.SerializePoint(unblinded, o.group))
}
