// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal provides structures and functions to operate OPAQUE that are not part of the public API.
package internal

import (
	"crypto"
	cryptorand "crypto/rand"
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/kem"
	"github.com/bytemare/opaque-core/internal/ksf"
	"github.com/bytemare/opaque-core/internal/oprf"
)

const (
	// NonceLength is the default length used for nonces.
	NonceLength = 32

	// SeedLength is the default length used for seeds.
	SeedLength = 32
)

// EnvelopeMode selects how the client's long-term key pair relates to the envelope.
type EnvelopeMode byte

const (
	// InternalMode derives the client key pair from the randomized password.
	InternalMode EnvelopeMode = iota + 1

	// ExternalMode carries a client-supplied private key encrypted in the envelope.
	ExternalMode
)

// Suite is the static description of a cipher suite. It is immutable and shared.
type Suite struct {
	KEM   kem.KEM
	Tag   string
	Hash  crypto.Hash
	Group group.Group
	Mode  EnvelopeMode
}

// Configuration is the set of primitives used by a single protocol operation. It must not be shared between
// concurrent operations, as the Hash holds a running state.
type Configuration struct {
	OPRF         *oprf.OPRF
	KDF          *KDF
	MAC          *Mac
	Hash         *Hash
	KSF          ksf.Stretcher
	KEM          kem.KEM
	Context      []byte
	NonceLen     int
	EnvelopeSize int
	Group        group.Group
	Mode         EnvelopeMode
}

// Configuration returns a fresh set of primitives for the suite.
func (s *Suite) Configuration(stretcher ksf.Stretcher, context []byte) *Configuration {
	mac := NewMac(s.Hash)

	return &Configuration{
		OPRF:         oprf.New(s.Group),
		KDF:          NewKDF(s.Hash),
		MAC:          mac,
		Hash:         NewHash(s.Hash),
		KSF:          stretcher,
		KEM:          s.KEM,
		Context:      context,
		NonceLen:     NonceLength,
		EnvelopeSize: s.EnvelopeSize(),
		Group:        s.Group,
		Mode:         s.Mode,
	}
}

// EnvelopeSize returns the length of an envelope.
func (s *Suite) EnvelopeSize() int {
	size := NonceLength + s.Hash.Size()
	if s.Mode == ExternalMode {
		size += encoding.ScalarLength[s.Group]
	}

	return size
}

// ElementLength returns the length of an encoded group element (Noe, Npk).
func (c *Configuration) ElementLength() int {
	return encoding.PointLength[c.Group]
}

// ScalarLength returns the length of an encoded scalar (Nok, Nsk).
func (c *Configuration) ScalarLength() int {
	return encoding.ScalarLength[c.Group]
}

// RandomBytes returns random bytes of length len (wrapper for crypto/rand).
func RandomBytes(length int) []byte {
	r := make([]byte, length)
	if _, err := cryptorand.Read(r); err != nil {
		// We can as well not panic and try again in a loop
		panic(fmt.Errorf("unexpected error in generating random bytes : %w", err))
	}

	return r
}

// DecodeElement decodes a non-identity element of the group, checking its length first.
func DecodeElement(g group.Group, input []byte) (*group.Element, error) {
	if len(input) != encoding.PointLength[g] {
		return nil, ErrInvalidEncodingLength
	}

	e := g.NewElement()
	if err := e.Decode(input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidElement, err)
	}

	if e.IsIdentity() {
		return nil, ErrIdentityElement
	}

	return e, nil
}

// DecodeScalar decodes a non-zero scalar of the group, checking its length first.
func DecodeScalar(g group.Group, input []byte) (*group.Scalar, error) {
	if len(input) != encoding.ScalarLength[g] {
		return nil, ErrInvalidEncodingLength
	}

	s := g.NewScalar()
	if err := s.Decode(input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScalar, err)
	}

	if s.IsZero() {
		return nil, ErrZeroScalar
	}

	return s, nil
}
