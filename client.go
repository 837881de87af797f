// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"crypto/subtle"
	"errors"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/ake"
	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/keyrecovery"
	"github.com/bytemare/opaque-core/internal/ksf"
	"github.com/bytemare/opaque-core/internal/masking"
	"github.com/bytemare/opaque-core/message"
)

// Client is the client side of OPAQUE. It holds no per-session state and is safe for concurrent use: the state of
// each registration or login lives in the state object returned by its start step.
type Client struct {
	suite         *Suite
	keyStretching *KeyStretching
	context       []byte
}

// Client returns a client with no application context and the default key stretching.
func (s *Suite) Client() *Client {
	return &Client{suite: s}
}

// Suite returns the client's suite.
func (c *Client) Suite() *Suite {
	return c.suite
}

// KeyGen returns a fresh encoded key pair, usable as the client's private key in external suites.
func (c *Client) KeyGen() (secretKey, publicKey []byte, err error) {
	conf := c.suite.configuration(ksf.Identity{}, nil)

	sk, pk, err := ake.KeyGen(conf)
	if err != nil {
		return nil, nil, ErrLibrary.Join(err)
	}

	return encoding.SerializeScalar(sk, conf.Group), encoding.SerializePoint(pk, conf.Group), nil
}

func (c *Client) stretcher(override *KeyStretching) (ksf.Stretcher, error) {
	if override != nil {
		return override.stretcher()
	}

	return c.keyStretching.stretcher()
}

// randomizedPassword finalizes the OPRF and hardens its output.
func randomizedPassword(conf *internal.Configuration, password []byte, blind *group.Scalar, evaluated *group.Element) []byte {
	output := conf.OPRF.Finalize(password, blind, evaluated)
	stretched := conf.KSF.Stretch(output, conf.Hash.Size())
	ikm := encoding.Concat(output, stretched)

	defer func() {
		internal.ClearSlice(&output)
		internal.ClearSlice(&stretched)
		internal.ClearSlice(&ikm)
	}()

	return conf.KDF.Extract(nil, ikm)
}

func sameElement(a, b *group.Element) bool {
	return subtle.ConstantTimeCompare(a.Encode(), b.Encode()) == 1
}

func checkElements(elements ...*group.Element) error {
	for _, e := range elements {
		if e == nil || e.IsIdentity() {
			return ErrSerialization.Join(ErrInvalidGroupElement, internal.ErrIdentityElement)
		}
	}

	return nil
}

/*
	Registration
*/

// StartRegistration blinds the password and returns the request to send to the server, and the state to keep for
// FinishRegistration.
func (c *Client) StartRegistration(
	password []byte,
) (request *message.RegistrationRequest, state *ClientRegistrationState, err error) {
	defer func() { c.suite.trace("client.start_registration", err) }()

	if err = validatePassword(password); err != nil {
		return nil, nil, err
	}

	conf := c.suite.configuration(nil, c.context)

	blind, blinded, err := conf.OPRF.Blind(password)
	if err != nil {
		return nil, nil, ErrInvalidInput.Join(err)
	}

	state = &ClientRegistrationState{
		suite:   c.suite.internal,
		blind:   blind,
		blinded: blinded.Copy(),
	}

	return &message.RegistrationRequest{BlindedMessage: blinded}, state, nil
}

func (c *Client) clientPrivateKey(params *ClientRegistrationFinishParameters) (*group.Scalar, error) {
	switch {
	case c.suite.IsExternal() && len(params.ClientPrivateKey) == 0:
		return nil, ErrInvalidInput.Join(internal.ErrMissingClientPrivateKey)
	case c.suite.IsExternal():
		sk, err := internal.DecodeScalar(c.suite.internal.Group, params.ClientPrivateKey)
		if err != nil {
			return nil, ErrInvalidInput.Join(internal.ErrInvalidPrivateKey, err)
		}

		return sk, nil
	case len(params.ClientPrivateKey) != 0:
		return nil, ErrInvalidInput.Join(internal.ErrUnexpectedClientPrivateKey)
	default:
		return nil, nil
	}
}

// FinishRegistration consumes the state and returns the upload to send to the server, and the export key. The
// state can't be used again, even if this call fails.
func (c *Client) FinishRegistration(
	state *ClientRegistrationState,
	password []byte,
	response *message.RegistrationResponse,
	params *ClientRegistrationFinishParameters,
) (upload *message.RegistrationUpload, exportKey []byte, err error) {
	defer func() { c.suite.trace("client.finish_registration", err) }()

	if state == nil {
		return nil, nil, ErrInvalidState.Join(internal.ErrMissingState)
	}

	if err = state.consume(); err != nil {
		return nil, nil, err
	}

	defer state.clear()

	if !c.suite.sameAs(state.suite) {
		return nil, nil, ErrInvalidState.Join(internal.ErrWrongSuite)
	}

	if err = validatePassword(password); err != nil {
		return nil, nil, err
	}

	if params == nil {
		params = &ClientRegistrationFinishParameters{}
	}

	if err = params.Identifiers.validate(); err != nil {
		return nil, nil, err
	}

	if response == nil {
		return nil, nil, ErrInvalidInput.Join(internal.ErrInvalidEvaluatedMessage)
	}

	if err = checkElements(response.EvaluatedMessage, response.ServerPublicKey); err != nil {
		return nil, nil, err
	}

	if sameElement(response.EvaluatedMessage, state.blinded) {
		return nil, nil, ErrReflectedValue.Join(internal.ErrReflectedEvaluation)
	}

	stretcher, err := c.stretcher(params.KeyStretching)
	if err != nil {
		return nil, nil, err
	}

	clientSecretKey, err := c.clientPrivateKey(params)
	if err != nil {
		return nil, nil, err
	}

	defer internal.ClearScalar(&clientSecretKey)

	conf := c.suite.configuration(stretcher, c.context)
	rp := randomizedPassword(conf, password, state.blind, response.EvaluatedMessage)

	defer internal.ClearSlice(&rp)

	serverPublicKey := encoding.SerializePoint(response.ServerPublicKey, conf.Group)

	env, clientPublicKey, maskingKey, exportKey, err := keyrecovery.Store(
		conf,
		rp,
		serverPublicKey,
		params.Identifiers.credentials(),
		clientSecretKey,
	)
	if err != nil {
		return nil, nil, ErrLibrary.Join(err)
	}

	return &message.RegistrationUpload{
		ClientPublicKey: clientPublicKey,
		MaskingKey:      maskingKey,
		Envelope:        env.Serialize(),
	}, exportKey, nil
}

/*
	Login
*/

// StartLogin blinds the password and returns KE1 to send to the server, and the state to keep for FinishLogin.
func (c *Client) StartLogin(password []byte) (ke1 *message.CredentialRequest, state *ClientLoginState, err error) {
	defer func() { c.suite.trace("client.start_login", err) }()

	if err = validatePassword(password); err != nil {
		return nil, nil, err
	}

	conf := c.suite.configuration(nil, c.context)

	blind, blinded, err := conf.OPRF.Blind(password)
	if err != nil {
		return nil, nil, ErrInvalidInput.Join(err)
	}

	ke1 = &message.CredentialRequest{BlindedMessage: blinded}

	secrets, err := ake.Start(conf, ke1)
	if err != nil {
		internal.ClearScalar(&blind)
		return nil, nil, ErrLibrary.Join(err)
	}

	state = &ClientLoginState{
		suite:   c.suite.internal,
		blind:   blind,
		ke1:     copyCredentialRequest(ke1),
		secrets: secrets,
	}

	return ke1, state, nil
}

func copyCredentialRequest(ke1 *message.CredentialRequest) *message.CredentialRequest {
	return &message.CredentialRequest{
		BlindedMessage:      ke1.BlindedMessage.Copy(),
		ClientKeyShare:      ke1.ClientKeyShare.Copy(),
		ClientNonce:         slices.Clone(ke1.ClientNonce),
		KEMEncapsulationKey: slices.Clone(ke1.KEMEncapsulationKey),
	}
}

// ClientLoginResult is the output of a successful login.
type ClientLoginResult struct {
	// Finalization is KE3, to send to the server.
	Finalization *message.CredentialFinalization

	// SessionKey is the shared secret, equal to the server's.
	SessionKey []byte

	// ExportKey is the client-only key, identical at registration and at every login with the same password.
	ExportKey []byte

	// ServerPublicKey is the server public key recovered from the credential response.
	ServerPublicKey []byte
}

func (c *Client) checkResponseSizes(ke2 *message.CredentialResponse) error {
	sizes := c.suite.Sizes()
	if len(ke2.MaskingNonce) != sizes.Nonce ||
		len(ke2.MaskedResponse) != sizes.Element+sizes.Envelope ||
		len(ke2.ServerNonce) != sizes.Nonce ||
		len(ke2.KEMCiphertext) != sizes.KEMCiphertext ||
		len(ke2.ServerMac) != sizes.Hash {
		return ErrSize.Join(internal.ErrInvalidEncodingLength)
	}

	return nil
}

// FinishLogin consumes the state, authenticates the server, and returns the login result. Any authentication
// failure, including a wrong password, returns ErrInvalidLogin without further detail. The state can't be used
// again, even if this call fails.
func (c *Client) FinishLogin(
	state *ClientLoginState,
	password []byte,
	ke2 *message.CredentialResponse,
	params *ClientLoginFinishParameters,
) (result *ClientLoginResult, err error) {
	defer func() { c.suite.trace("client.finish_login", err) }()

	if state == nil {
		return nil, ErrInvalidState.Join(internal.ErrMissingState)
	}

	if err = state.consume(); err != nil {
		return nil, err
	}

	defer state.clear()

	if !c.suite.sameAs(state.suite) {
		return nil, ErrInvalidState.Join(internal.ErrWrongSuite)
	}

	if err = validatePassword(password); err != nil {
		return nil, err
	}

	if params == nil {
		params = &ClientLoginFinishParameters{}
	}

	if err = params.Identifiers.validate(); err != nil {
		return nil, err
	}

	context, err := selectContext(params.Context, c.context)
	if err != nil {
		return nil, err
	}

	if ke2 == nil {
		return nil, ErrInvalidInput.Join(internal.ErrInvalidEvaluatedMessage)
	}

	if err = c.checkResponseSizes(ke2); err != nil {
		return nil, err
	}

	if err = checkElements(ke2.EvaluatedMessage, ke2.ServerKeyShare); err != nil {
		return nil, err
	}

	if sameElement(ke2.EvaluatedMessage, state.ke1.BlindedMessage) {
		return nil, ErrReflectedValue.Join(internal.ErrReflectedEvaluation)
	}

	if sameElement(ke2.ServerKeyShare, state.ke1.ClientKeyShare) {
		return nil, ErrReflectedValue.Join(internal.ErrReflectedKeyShare)
	}

	stretcher, err := c.stretcher(params.KeyStretching)
	if err != nil {
		return nil, err
	}

	conf := c.suite.configuration(stretcher, context)
	rp := randomizedPassword(conf, password, state.blind, ke2.EvaluatedMessage)

	defer internal.ClearSlice(&rp)

	serverPublicKey, serverPublicKeyBytes, envelope, err := masking.Unmask(conf, rp, ke2.MaskingNonce, ke2.MaskedResponse)
	if err != nil {
		return nil, ErrInvalidLogin
	}

	if params.ServerPublicKey != nil {
		if err = VerifyServerPublicKey(params.ServerPublicKey, serverPublicKeyBytes); err != nil {
			return nil, err
		}
	}

	clientSecretKey, clientPublicKey, exportKey, err := keyrecovery.Recover(
		conf,
		rp,
		serverPublicKeyBytes,
		params.Identifiers.credentials(),
		envelope,
	)
	if err != nil {
		return nil, ErrInvalidLogin
	}

	defer internal.ClearScalar(&clientSecretKey)

	identities := params.Identifiers.resolve(encoding.SerializePoint(clientPublicKey, conf.Group), serverPublicKeyBytes)

	ke3, sessionKey, err := ake.Finalize(
		conf,
		identities,
		state.secrets,
		clientSecretKey,
		serverPublicKey,
		state.ke1,
		ke2,
	)
	if err != nil {
		internal.ClearSlice(&exportKey)

		if errors.Is(err, internal.ErrReflectedKeyShare) {
			return nil, ErrReflectedValue.Join(err)
		}

		return nil, ErrInvalidLogin
	}

	return &ClientLoginResult{
		Finalization:    ke3,
		SessionKey:      sessionKey,
		ExportKey:       exportKey,
		ServerPublicKey: slices.Clone(serverPublicKeyBytes),
	}, nil
}
