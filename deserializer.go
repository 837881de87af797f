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
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/ake"
	"github.com/bytemare/opaque-core/message"
)

// Deserializer decodes the messages, password files, setups, and states of a suite. Lengths are checked before any
// group operation: a wrong length returns ErrSize, an invalid value returns ErrSerialization.
type Deserializer struct {
	suite *Suite
	sizes Sizes
}

// Deserializer returns a deserializer for the suite.
func (s *Suite) Deserializer() *Deserializer {
	return &Deserializer{suite: s, sizes: s.Sizes()}
}

func checkLength(what string, input []byte, expected int) error {
	if len(input) != expected {
		return ErrSize.Join(
			internal.ErrInvalidEncodingLength,
			fmt.Errorf("%s: expected %d bytes, got %d", what, expected, len(input)),
		)
	}

	return nil
}

func (d *Deserializer) curve() group.Group {
	return d.suite.internal.Group
}

func (d *Deserializer) element(what string, input []byte) (*group.Element, error) {
	e, err := internal.DecodeElement(d.curve(), input)
	if err != nil {
		return nil, ErrSerialization.Join(ErrInvalidGroupElement, fmt.Errorf("%s: %w", what, err))
	}

	return e, nil
}

func (d *Deserializer) scalar(what string, input []byte) (*group.Scalar, error) {
	s, err := internal.DecodeScalar(d.curve(), input)
	if err != nil {
		return nil, ErrSerialization.Join(fmt.Errorf("%s: %w", what, err))
	}

	return s, nil
}

// RegistrationRequest decodes a RegistrationRequest.
func (d *Deserializer) RegistrationRequest(input []byte) (*message.RegistrationRequest, error) {
	if err := checkLength("registration request", input, d.sizes.RegistrationRequest); err != nil {
		return nil, err
	}

	blinded, err := d.element("blinded message", input)
	if err != nil {
		return nil, err
	}

	return &message.RegistrationRequest{BlindedMessage: blinded}, nil
}

// RegistrationResponse decodes a RegistrationResponse.
func (d *Deserializer) RegistrationResponse(input []byte) (*message.RegistrationResponse, error) {
	if err := checkLength("registration response", input, d.sizes.RegistrationResponse); err != nil {
		return nil, err
	}

	e := d.sizes.Element

	evaluated, err := d.element("evaluated message", input[:e])
	if err != nil {
		return nil, err
	}

	serverPublicKey, err := d.element("server public key", input[e:])
	if err != nil {
		return nil, err
	}

	return &message.RegistrationResponse{EvaluatedMessage: evaluated, ServerPublicKey: serverPublicKey}, nil
}

// RegistrationUpload decodes a RegistrationUpload.
func (d *Deserializer) RegistrationUpload(input []byte) (*message.RegistrationUpload, error) {
	if err := checkLength("registration upload", input, d.sizes.RegistrationUpload); err != nil {
		return nil, err
	}

	e, h := d.sizes.Element, d.sizes.Hash

	clientPublicKey, err := d.element("client public key", input[:e])
	if err != nil {
		return nil, err
	}

	return &message.RegistrationUpload{
		ClientPublicKey: clientPublicKey,
		MaskingKey:      slices.Clone(input[e : e+h]),
		Envelope:        slices.Clone(input[e+h:]),
	}, nil
}

// PasswordFile decodes a stored password file.
func (d *Deserializer) PasswordFile(input []byte) (*PasswordFile, error) {
	upload, err := d.RegistrationUpload(input)
	if err != nil {
		return nil, err
	}

	return &PasswordFile{RegistrationUpload: upload, suite: d.suite.internal}, nil
}

// CredentialRequest decodes KE1.
func (d *Deserializer) CredentialRequest(input []byte) (*message.CredentialRequest, error) {
	if err := checkLength("credential request", input, d.sizes.CredentialRequest); err != nil {
		return nil, err
	}

	e, n := d.sizes.Element, d.sizes.Nonce

	blinded, err := d.element("blinded message", input[:e])
	if err != nil {
		return nil, err
	}

	keyShare, err := d.element("client key share", input[e+n:e+n+e])
	if err != nil {
		return nil, err
	}

	ke1 := &message.CredentialRequest{
		BlindedMessage: blinded,
		ClientKeyShare: keyShare,
		ClientNonce:    slices.Clone(input[e : e+n]),
	}

	if d.sizes.KEMEncapsulationKey != 0 {
		ke1.KEMEncapsulationKey = slices.Clone(input[e+n+e:])
	}

	return ke1, nil
}

// CredentialResponse decodes KE2.
func (d *Deserializer) CredentialResponse(input []byte) (*message.CredentialResponse, error) {
	if err := checkLength("credential response", input, d.sizes.CredentialResponse); err != nil {
		return nil, err
	}

	e, n, h := d.sizes.Element, d.sizes.Nonce, d.sizes.Hash
	masked := e + d.sizes.Envelope

	evaluated, err := d.element("evaluated message", input[:e])
	if err != nil {
		return nil, err
	}

	offset := e
	maskingNonce := input[offset : offset+n]
	offset += n
	maskedResponse := input[offset : offset+masked]
	offset += masked
	serverNonce := input[offset : offset+n]
	offset += n

	keyShare, err := d.element("server key share", input[offset:offset+e])
	if err != nil {
		return nil, err
	}

	offset += e
	kemCiphertext := input[offset : offset+d.sizes.KEMCiphertext]
	offset += d.sizes.KEMCiphertext

	ke2 := &message.CredentialResponse{
		EvaluatedMessage: evaluated,
		ServerKeyShare:   keyShare,
		MaskingNonce:     slices.Clone(maskingNonce),
		MaskedResponse:   slices.Clone(maskedResponse),
		ServerNonce:      slices.Clone(serverNonce),
		ServerMac:        slices.Clone(input[offset : offset+h]),
	}

	if len(kemCiphertext) != 0 {
		ke2.KEMCiphertext = slices.Clone(kemCiphertext)
	}

	return ke2, nil
}

// CredentialFinalization decodes KE3.
func (d *Deserializer) CredentialFinalization(input []byte) (*message.CredentialFinalization, error) {
	if err := checkLength("credential finalization", input, d.sizes.CredentialFinalization); err != nil {
		return nil, err
	}

	return &message.CredentialFinalization{ClientMac: slices.Clone(input)}, nil
}

// ServerSetup decodes a server setup, and verifies that the public key matches the private key.
func (d *Deserializer) ServerSetup(input []byte) (*ServerSetup, error) {
	if err := checkLength("server setup", input, d.sizes.ServerSetup); err != nil {
		return nil, err
	}

	h, sc := d.sizes.Hash, d.sizes.Scalar

	seed := input[:h]
	if internal.IsAllZeros(seed) {
		return nil, ErrSerialization.Join(internal.ErrInvalidOPRFSeed)
	}

	sk, err := internal.DecodeScalar(d.curve(), input[h:h+sc])
	if err != nil {
		return nil, ErrSerialization.Join(internal.ErrInvalidPrivateKey, err)
	}

	pk, err := d.element("server public key", input[h+sc:])
	if err != nil {
		return nil, err
	}

	if !sameElement(d.curve().Base().Multiply(sk), pk) {
		internal.ClearScalar(&sk)
		return nil, ErrSerialization.Join(internal.ErrServerKeyMismatch)
	}

	return &ServerSetup{
		suite:      d.suite.internal,
		privateKey: sk,
		publicKey:  pk,
		oprfSeed:   slices.Clone(seed),
	}, nil
}

// ServerSetupHex decodes the hexadecimal encoding of a server setup.
func (d *Deserializer) ServerSetupHex(encoded string) (*ServerSetup, error) {
	if encoded == "" {
		return nil, ErrSerialization.Join(internal.ErrDecodingEmptyHex)
	}

	input, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, ErrSerialization.Join(err)
	}

	defer internal.ClearSlice(&input)

	return d.ServerSetup(input)
}

// ClientRegistrationState decodes a client registration state.
func (d *Deserializer) ClientRegistrationState(input []byte) (*ClientRegistrationState, error) {
	if err := checkLength("client registration state", input, d.sizes.ClientRegistrationState); err != nil {
		return nil, err
	}

	sc := d.sizes.Scalar

	blind, err := d.scalar("blind", input[:sc])
	if err != nil {
		return nil, err
	}

	blinded, err := d.element("blinded message", input[sc:])
	if err != nil {
		return nil, err
	}

	return &ClientRegistrationState{suite: d.suite.internal, blind: blind, blinded: blinded}, nil
}

// ClientLoginState decodes a client login state.
func (d *Deserializer) ClientLoginState(input []byte) (*ClientLoginState, error) {
	if err := checkLength("client login state", input, d.sizes.ClientLoginState); err != nil {
		return nil, err
	}

	sc := d.sizes.Scalar
	ke1End := 2*sc + d.sizes.CredentialRequest

	blind, err := d.scalar("blind", input[:sc])
	if err != nil {
		return nil, err
	}

	esk, err := d.scalar("ephemeral secret key", input[sc:2*sc])
	if err != nil {
		return nil, err
	}

	ke1, err := d.CredentialRequest(input[2*sc : ke1End])
	if err != nil {
		return nil, err
	}

	secrets := &ake.ClientSecrets{EphemeralSecretKey: esk}
	if ke1End < len(input) {
		secrets.KEMDecapsulationKey = slices.Clone(input[ke1End:])
	}

	return &ClientLoginState{suite: d.suite.internal, blind: blind, ke1: ke1, secrets: secrets}, nil
}

// ServerLoginState decodes a server login state.
func (d *Deserializer) ServerLoginState(input []byte) (*ServerLoginState, error) {
	if err := checkLength("server login state", input, d.sizes.ServerLoginState); err != nil {
		return nil, err
	}

	h := d.sizes.Hash

	return &ServerLoginState{
		suite:             d.suite.internal,
		expectedClientMac: slices.Clone(input[:h]),
		sessionKey:        slices.Clone(input[h:]),
	}, nil
}
