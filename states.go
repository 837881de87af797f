// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"sync/atomic"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/ake"
	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/message"
)

// consumable makes a state single-use. The first finish call consumes the state, whatever its outcome.
type consumable struct {
	consumed atomic.Bool
}

func (c *consumable) consume() error {
	if !c.consumed.CompareAndSwap(false, true) {
		return ErrInvalidState.Join(internal.ErrStateConsumed)
	}

	return nil
}

// Consumed returns whether the state has been used by a finish call, after which it holds no secrets.
func (c *consumable) Consumed() bool {
	return c.consumed.Load()
}

func (c *consumable) checkSerializable(suite *internal.Suite) error {
	if c.consumed.Load() {
		return ErrInvalidState.Join(internal.ErrStateConsumed)
	}

	if suite == nil {
		return ErrInvalidState.Join(internal.ErrWrongSuite)
	}

	return nil
}

func suiteTag(suite *internal.Suite) string {
	if suite == nil {
		return ""
	}

	return suite.Tag
}

// ClientRegistrationState holds the client's secrets between the start and the finish of a registration.
// It must not be serialized while a finish call is running on it.
type ClientRegistrationState struct {
	consumable
	suite   *internal.Suite
	blind   *group.Scalar
	blinded *group.Element
}

// Suite returns the tag of the suite the state belongs to, or an empty string for a state not issued by a Client
// or a Server.
func (s *ClientRegistrationState) Suite() string {
	return suiteTag(s.suite)
}

// Serialize returns blind || blinded_message. The output contains secrets.
func (s *ClientRegistrationState) Serialize() ([]byte, error) {
	if err := s.checkSerializable(s.suite); err != nil {
		return nil, err
	}

	return encoding.Concat(
		encoding.SerializeScalar(s.blind, s.suite.Group),
		encoding.SerializePoint(s.blinded, s.suite.Group),
	), nil
}

func (s *ClientRegistrationState) clear() {
	internal.ClearScalar(&s.blind)
}

// ClientLoginState holds the client's secrets between the start and the finish of a login.
// It must not be serialized while a finish call is running on it.
type ClientLoginState struct {
	consumable
	suite   *internal.Suite
	blind   *group.Scalar
	ke1     *message.CredentialRequest
	secrets *ake.ClientSecrets
}

// Suite returns the tag of the suite the state belongs to, or an empty string for a state not issued by a Client
// or a Server.
func (s *ClientLoginState) Suite() string {
	return suiteTag(s.suite)
}

// Serialize returns blind || ephemeral_secret_key || KE1, followed by the KEM decapsulation key seed in hybrid
// suites. The output contains secrets.
func (s *ClientLoginState) Serialize() ([]byte, error) {
	if err := s.checkSerializable(s.suite); err != nil {
		return nil, err
	}

	return encoding.Concatenate(
		encoding.SerializeScalar(s.blind, s.suite.Group),
		encoding.SerializeScalar(s.secrets.EphemeralSecretKey, s.suite.Group),
		s.ke1.Serialize(),
		s.secrets.KEMDecapsulationKey,
	), nil
}

func (s *ClientLoginState) clear() {
	internal.ClearScalar(&s.blind)

	if s.secrets != nil {
		s.secrets.Flush()
	}
}

// ServerLoginState holds the server's expected client MAC and the pending session key between the start and the
// finish of a login. It must not be serialized while a finish call is running on it.
type ServerLoginState struct {
	consumable
	suite             *internal.Suite
	expectedClientMac []byte
	sessionKey        []byte
}

// Suite returns the tag of the suite the state belongs to, or an empty string for a state not issued by a Client
// or a Server.
func (s *ServerLoginState) Suite() string {
	return suiteTag(s.suite)
}

// Serialize returns expected_client_mac || session_key. The output contains secrets.
func (s *ServerLoginState) Serialize() ([]byte, error) {
	if err := s.checkSerializable(s.suite); err != nil {
		return nil, err
	}

	return encoding.Concat(s.expectedClientMac, s.sessionKey), nil
}

func (s *ServerLoginState) clear() {
	internal.ClearSlice(&s.expectedClientMac)
	internal.ClearSlice(&s.sessionKey)
}
