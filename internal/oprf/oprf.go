// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package oprf implements the Elliptic Curve Oblivious Pseudorandom Function (EC-OPRF) of RFC 9497, in base mode.
package oprf

import (
	"crypto"
	"errors"

	group "github.com/bytemare/crypto"
	"github.com/bytemare/hash"

	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/tag"
)

// modeOPRF is the base mode identifier.
const modeOPRF byte = 0x00

var (
	// ErrInvalidInput indicates that the input hashes to the identity element.
	ErrInvalidInput = errors.New("input maps to the identity element")

	// ErrDeriveKeyPair indicates that no non-zero scalar could be derived.
	ErrDeriveKeyPair = errors.New("impossible to derive a non-zero scalar")

	// ErrZeroBlind indicates that the blind is zero.
	ErrZeroBlind = errors.New("blind is zero")
)

type suite struct {
	name string
	hash crypto.Hash
}

var suites = map[group.Group]suite{
	group.Ristretto255Sha512: {name: "ristretto255-SHA512", hash: crypto.SHA512},
	group.P256Sha256:         {name: "P256-SHA256", hash: crypto.SHA256},
	group.P384Sha384:         {name: "P384-SHA384", hash: crypto.SHA384},
	group.P521Sha512:         {name: "P521-SHA512", hash: crypto.SHA512},
}

// OPRF holds the cipher suite dependent values of the OPRF.
type OPRF struct {
	contextString []byte
	hash          crypto.Hash
	group         group.Group
}

// New returns the OPRF over the given group. It panics if the group has no OPRF suite.
func New(g group.Group) *OPRF {
	s, ok := suites[g]
	if !ok {
		panic("oprf: unsupported group")
	}

	return &OPRF{
		contextString: encoding.Concatenate(
			[]byte(tag.OPRFVersionPrefix),
			[]byte{modeOPRF},
			[]byte("-"),
			[]byte(s.name),
		),
		hash:  s.hash,
		group: g,
	}
}

// Group returns the prime-order group of the OPRF.
func (o *OPRF) Group() group.Group {
	return o.group
}

// Name returns the identifier of the OPRF suite.
func (o *OPRF) Name() string {
	return suites[o.group].name
}

// ScalarLength returns the byte length of an encoded scalar (Nok).
func (o *OPRF) ScalarLength() int {
	return encoding.ScalarLength[o.group]
}

// ElementLength returns the byte length of an encoded element (Noe).
func (o *OPRF) ElementLength() int {
	return encoding.PointLength[o.group]
}

func (o *OPRF) dst(prefix string) []byte {
	return encoding.SuffixString([]byte(prefix), string(o.contextString))
}

// HashToGroup maps the input data to an element of the group.
func (o *OPRF) HashToGroup(input []byte) *group.Element {
	return o.group.HashToGroup(input, o.dst(tag.OPRFPointPrefix))
}

// DeriveKeyPair deterministically generates a private and public key pair from input seed.
func (o *OPRF) DeriveKeyPair(seed, info []byte) (*group.Scalar, *group.Element, error) {
	dst := o.dst(tag.OPRFDeriveKeyPairInternal)
	deriveInput := encoding.Concat(seed, encoding.EncodeVector(info))

	for counter := 0; counter <= 255; counter++ {
		s := o.group.HashToScalar(encoding.Concat(deriveInput, []byte{byte(counter)}), dst)
		if !s.IsZero() {
			return s, o.group.Base().Multiply(s), nil
		}
	}

	return nil, nil, ErrDeriveKeyPair
}

func (o *OPRF) hashTranscript(input, unblinded []byte) []byte {
	h := hash.FromCrypto(o.hash).GetHashFunction()
	_, _ = h.Write(encoding.EncodeVector(input))
	_, _ = h.Write(encoding.EncodeVector(unblinded))
	_, _ = h.Write([]byte(tag.OPRFFinalize))

	return h.Sum(nil)
}
