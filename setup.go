// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"encoding/hex"
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/ake"
	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/keyrecovery"
	"github.com/bytemare/opaque-core/internal/ksf"
	"github.com/bytemare/opaque-core/internal/tag"
	"github.com/bytemare/opaque-core/message"
)

// ServerSetup is the server's long-term secret material: the OPRF seed from which every per-credential OPRF key is
// derived, and the AKE key pair. It must be generated once, kept secret, and reused for all clients: changing it
// invalidates every registered password file.
type ServerSetup struct {
	suite      *internal.Suite
	privateKey *group.Scalar
	publicKey  *group.Element
	oprfSeed   []byte
}

// NewServerSetup generates a fresh OPRF seed and server key pair.
func (s *Suite) NewServerSetup() (*ServerSetup, error) {
	conf := s.configuration(ksf.Identity{}, nil)

	sk, pk, err := ake.KeyGen(conf)
	if err != nil {
		return nil, ErrLibrary.Join(err)
	}

	s.logger.Debug("generated server setup")

	return &ServerSetup{
		suite:      s.internal,
		privateKey: sk,
		publicKey:  pk,
		oprfSeed:   internal.RandomBytes(s.internal.Hash.Size()),
	}, nil
}

// NewServerSetupWithKey generates a fresh OPRF seed, and uses the given encoded private key as the server's AKE key.
func (s *Suite) NewServerSetupWithKey(privateKey []byte) (*ServerSetup, error) {
	sk, err := internal.DecodeScalar(s.internal.Group, privateKey)
	if err != nil {
		return nil, ErrInvalidInput.Join(internal.ErrInvalidPrivateKey, err)
	}

	return &ServerSetup{
		suite:      s.internal,
		privateKey: sk,
		publicKey:  s.internal.Group.Base().Multiply(sk),
		oprfSeed:   internal.RandomBytes(s.internal.Hash.Size()),
	}, nil
}

// Suite returns the tag of the suite the setup belongs to.
func (s *ServerSetup) Suite() string {
	return s.suite.Tag
}

// PublicKey returns the encoding of the server's public key, which clients may pin.
func (s *ServerSetup) PublicKey() []byte {
	return encoding.SerializePoint(s.publicKey, s.suite.Group)
}

// Serialize returns oprf_seed || private_key || public_key.
func (s *ServerSetup) Serialize() []byte {
	return encoding.Concat3(
		s.oprfSeed,
		encoding.SerializeScalar(s.privateKey, s.suite.Group),
		encoding.SerializePoint(s.publicKey, s.suite.Group),
	)
}

// Hex returns the hexadecimal encoding of Serialize.
func (s *ServerSetup) Hex() string {
	return hex.EncodeToString(s.Serialize())
}

// Flush attempts to zero out the secrets of the setup, which is unusable afterwards.
func (s *ServerSetup) Flush() {
	internal.ClearScalar(&s.privateKey)
	internal.ClearSlice(&s.oprfSeed)
}

func (s *ServerSetup) usableWith(suite *Suite) error {
	if s == nil || s.privateKey == nil || len(s.oprfSeed) == 0 {
		return ErrInvalidInput.Join(internal.ErrInvalidOPRFSeed)
	}

	if !suite.sameAs(s.suite) {
		return ErrInvalidInput.Join(internal.ErrWrongSuite, fmt.Errorf("setup %q, server %q", s.suite.Tag, suite.Tag()))
	}

	return nil
}

func (s *ServerSetup) expand(conf *internal.Configuration, credentialIdentifier []byte, label string, length int) []byte {
	return conf.KDF.Expand(s.oprfSeed, encoding.SuffixString(credentialIdentifier, label), length)
}

// oprfKey derives the OPRF key of the credential identifier.
func (s *ServerSetup) oprfKey(conf *internal.Configuration, credentialIdentifier []byte) (*group.Scalar, error) {
	seed := s.expand(conf, credentialIdentifier, tag.ExpandOPRF, conf.ScalarLength())
	defer internal.ClearSlice(&seed)

	sk, _, err := conf.OPRF.DeriveKeyPair(seed, []byte(tag.DeriveKeyPair))
	if err != nil {
		return nil, ErrLibrary.Join(err)
	}

	return sk, nil
}

// fakeRecord derives a password file for an unknown credential identifier. The same identifier always yields the
// same record, so repeated probes can't tell it apart from a registered one.
func (s *ServerSetup) fakeRecord(
	conf *internal.Configuration,
	credentialIdentifier []byte,
) (*message.RegistrationUpload, error) {
	seed := s.expand(conf, credentialIdentifier, tag.FakeClientKey, internal.SeedLength)
	defer internal.ClearSlice(&seed)

	_, pk, err := keyrecovery.DeriveDiffieHellmanKeyPair(conf, seed)
	if err != nil {
		return nil, ErrLibrary.Join(err)
	}

	return &message.RegistrationUpload{
		ClientPublicKey: pk,
		MaskingKey:      s.expand(conf, credentialIdentifier, tag.FakeMaskingKey, conf.Hash.Size()),
		Envelope:        s.expand(conf, credentialIdentifier, tag.FakeEnvelope, conf.EnvelopeSize),
	}, nil
}
