// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/bytemare/ksf"
	"github.com/fxamacker/cbor/v2"

	"github.com/bytemare/opaque-core/internal"
	internalKSF "github.com/bytemare/opaque-core/internal/ksf"
)

const (
	// MaxPasswordLength is the maximum length of a password.
	MaxPasswordLength = 1<<16 - 1

	// MaxIdentityLength is the maximum length of an identity or of the application context.
	MaxIdentityLength = 1<<16 - 1
)

// StretchVariant selects a predefined key stretching profile.
type StretchVariant byte

const (
	// StretchDefault is Argon2id with m=19456 KiB, t=2, p=1.
	StretchDefault StretchVariant = iota

	// StretchMemoryConstrained is Argon2id with m=65536 KiB, t=3, p=4.
	StretchMemoryConstrained

	// StretchRFCRecommended is Argon2id with m=2^21-1 KiB, t=1, p=4.
	StretchRFCRecommended

	// StretchIdentity performs no stretching. It must only be used in tests.
	StretchIdentity
)

// String implements the fmt.Stringer interface.
func (v StretchVariant) String() string {
	switch v {
	case StretchDefault:
		return "default"
	case StretchMemoryConstrained:
		return "memory_constrained"
	case StretchRFCRecommended:
		return "rfc_recommended"
	case StretchIdentity:
		return "identity"
	default:
		return fmt.Sprintf("unknown(%d)", byte(v))
	}
}

// Argon2Params are explicit Argon2id costs. A zero OutputLength yields an output of the hash length.
type Argon2Params struct {
	MemoryKiB    uint32 `json:"memoryKiB"              cbor:"1,keyasint"`
	Time         uint32 `json:"time"                   cbor:"2,keyasint"`
	OutputLength uint32 `json:"outputLength,omitempty" cbor:"4,keyasint,omitempty"`
	Parallelism  uint8  `json:"parallelism"            cbor:"3,keyasint"`
}

// KeyStretching selects the function hardening the OPRF output. Argon2 takes precedence over Algorithm, which takes
// precedence over Variant. Client and server don't need to agree on it, but a client must use the same key
// stretching at registration and at every login.
type KeyStretching struct {
	// Argon2 sets explicit Argon2id costs.
	Argon2 *Argon2Params `json:"argon2,omitempty" cbor:"1,keyasint,omitempty"`

	// Parameters optionally parameterize Algorithm, in the order of github.com/bytemare/ksf.
	Parameters []int `json:"parameters,omitempty" cbor:"3,keyasint,omitempty"`

	// Algorithm selects a named algorithm of github.com/bytemare/ksf.
	Algorithm ksf.Identifier `json:"algorithm,omitempty" cbor:"2,keyasint,omitempty"`

	// Variant selects a predefined Argon2id profile.
	Variant StretchVariant `json:"variant,omitempty" cbor:"4,keyasint,omitempty"`
}

func argon2Variant(v StretchVariant) (*internalKSF.Argon2, error) {
	switch v {
	case StretchDefault:
		return internalKSF.NewArgon2(19456, 2, 1, 0)
	case StretchMemoryConstrained:
		return internalKSF.NewArgon2(65536, 3, 4, 0)
	case StretchRFCRecommended:
		return internalKSF.NewArgon2(1<<21-1, 1, 4, 0)
	default:
		return nil, fmt.Errorf("%w: unknown variant %d", internal.ErrInvalidKSFParameters, v)
	}
}

// stretcher returns the key stretching function. A nil KeyStretching yields the default profile.
func (k *KeyStretching) stretcher() (internalKSF.Stretcher, error) {
	var (
		s   internalKSF.Stretcher
		err error
	)

	switch {
	case k == nil:
		s, err = argon2Variant(StretchDefault)
	case k.Argon2 != nil:
		s, err = internalKSF.NewArgon2(k.Argon2.MemoryKiB, k.Argon2.Time, k.Argon2.Parallelism, k.Argon2.OutputLength)
	case k.Algorithm != 0:
		s, err = internalKSF.NewNamed(k.Algorithm, k.Parameters)
	case k.Variant == StretchIdentity:
		s = internalKSF.Identity{}
	default:
		s, err = argon2Variant(k.Variant)
	}

	if err != nil {
		return nil, ErrInvalidInput.Join(internal.ErrInvalidKSFParameters, err)
	}

	return s, nil
}

func (k *KeyStretching) String() string {
	switch {
	case k == nil:
		return StretchDefault.String()
	case k.Argon2 != nil:
		return fmt.Sprintf("argon2id(m=%d,t=%d,p=%d)", k.Argon2.MemoryKiB, k.Argon2.Time, k.Argon2.Parallelism)
	case k.Algorithm != 0:
		return fmt.Sprintf("ksf(%d)", byte(k.Algorithm))
	default:
		return k.Variant.String()
	}
}

// Configuration is the application-level setup of OPAQUE: the suite, the application context bound into every
// transcript, and the client's key stretching. Client and server must use the same Suite and Context.
type Configuration struct {
	// Logger receives debug logs of the protocol steps. It is never serialized. Defaults to discarding.
	Logger *slog.Logger `json:"-" cbor:"-"`

	// KeyStretching defaults to StretchDefault.
	KeyStretching *KeyStretching `json:"keyStretching,omitempty" cbor:"3,keyasint,omitempty"`

	// Suite is the suite tag, e.g. Ristretto255Sha512.
	Suite string `json:"suite" cbor:"1,keyasint"`

	// Context is the application context. Per-call parameters can override it.
	Context []byte `json:"context,omitempty" cbor:"2,keyasint,omitempty"`
}

// DefaultConfiguration returns a configuration with the default suite, no context, and the default key stretching.
func DefaultConfiguration() *Configuration {
	return &Configuration{Suite: Ristretto255Sha512}
}

func (c *Configuration) suite() (*Suite, error) {
	if len(c.Context) > MaxIdentityLength {
		return nil, ErrInvalidInput.Join(internal.ErrIdentityTooLong)
	}

	s, err := LookupSuite(c.Suite)
	if err != nil {
		return nil, err
	}

	return s.WithLogger(c.Logger), nil
}

// Client returns a client for the configuration.
func (c *Configuration) Client() (*Client, error) {
	s, err := c.suite()
	if err != nil {
		return nil, err
	}

	if _, err = c.KeyStretching.stretcher(); err != nil {
		return nil, err
	}

	return &Client{
		suite:         s,
		keyStretching: c.KeyStretching,
		context:       slices.Clone(c.Context),
	}, nil
}

// Server returns a server for the configuration.
func (c *Configuration) Server() (*Server, error) {
	s, err := c.suite()
	if err != nil {
		return nil, err
	}

	return &Server{suite: s, context: slices.Clone(c.Context)}, nil
}

// Deserializer returns a deserializer for the configuration's suite.
func (c *Configuration) Deserializer() (*Deserializer, error) {
	s, err := c.suite()
	if err != nil {
		return nil, err
	}

	return s.Deserializer(), nil
}

var cborEncoding = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	return em
}()

// Serialize returns the deterministic CBOR encoding of the configuration.
func (c *Configuration) Serialize() ([]byte, error) {
	out, err := cborEncoding.Marshal(c)
	if err != nil {
		return nil, ErrSerialization.Join(err)
	}

	return out, nil
}

// DeserializeConfiguration decodes a CBOR encoded configuration and verifies that its suite is available.
func DeserializeConfiguration(encoded []byte) (*Configuration, error) {
	c := new(Configuration)
	if err := cbor.Unmarshal(encoded, c); err != nil {
		return nil, ErrSerialization.Join(err)
	}

	if _, err := c.suite(); err != nil {
		return nil, err
	}

	if _, err := c.KeyStretching.stretcher(); err != nil {
		return nil, err
	}

	return c, nil
}
