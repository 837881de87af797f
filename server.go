// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"slices"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/ake"
	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/masking"
	"github.com/bytemare/opaque-core/message"
)

// Server is the server side of OPAQUE. It holds no per-session state and is safe for concurrent use. The long-term
// secrets are held by a ServerSetup, passed to each call.
type Server struct {
	suite   *Suite
	context []byte
}

// Server returns a server with no application context.
func (s *Suite) Server() *Server {
	return &Server{suite: s}
}

// Suite returns the server's suite.
func (s *Server) Suite() *Suite {
	return s.suite
}

func checkCredentialIdentifier(credentialIdentifier []byte) error {
	if len(credentialIdentifier) == 0 {
		return ErrInvalidInput.Join(internal.ErrEmptyCredentialIdentifier)
	}

	return nil
}

/*
	Registration
*/

// StartRegistration evaluates the client's blinded password with the OPRF key of the credential identifier, and
// returns the response to send back to the client.
func (s *Server) StartRegistration(
	setup *ServerSetup,
	request *message.RegistrationRequest,
	credentialIdentifier []byte,
) (response *message.RegistrationResponse, err error) {
	defer func() { s.suite.trace("server.start_registration", err) }()

	if err = setup.usableWith(s.suite); err != nil {
		return nil, err
	}

	if err = checkCredentialIdentifier(credentialIdentifier); err != nil {
		return nil, err
	}

	if request == nil {
		return nil, ErrInvalidInput.Join(internal.ErrInvalidBlindedMessage)
	}

	if err = checkElements(request.BlindedMessage); err != nil {
		return nil, err
	}

	conf := s.suite.configuration(nil, s.context)

	oprfKey, err := setup.oprfKey(conf, credentialIdentifier)
	if err != nil {
		return nil, err
	}

	defer internal.ClearScalar(&oprfKey)

	return &message.RegistrationResponse{
		EvaluatedMessage: conf.OPRF.Evaluate(oprfKey, request.BlindedMessage),
		ServerPublicKey:  setup.publicKey.Copy(),
	}, nil
}

// FinishRegistration turns the client's upload into the password file to store under the credential identifier.
// It checks the upload's structure but performs no cryptographic verification.
func (s *Server) FinishRegistration(upload *message.RegistrationUpload) (file *PasswordFile, err error) {
	defer func() { s.suite.trace("server.finish_registration", err) }()

	if upload == nil {
		return nil, ErrInvalidInput.Join(internal.ErrInvalidClientPublicKey)
	}

	if err = checkElements(upload.ClientPublicKey); err != nil {
		return nil, err
	}

	sizes := s.suite.Sizes()
	if len(upload.MaskingKey) != sizes.Hash || len(upload.Envelope) != sizes.Envelope {
		return nil, ErrSize.Join(internal.ErrInvalidEncodingLength)
	}

	return &PasswordFile{
		RegistrationUpload: &message.RegistrationUpload{
			ClientPublicKey: upload.ClientPublicKey.Copy(),
			MaskingKey:      slices.Clone(upload.MaskingKey),
			Envelope:        slices.Clone(upload.Envelope),
		},
		suite: s.suite.internal,
	}, nil
}

/*
	Login
*/

func (s *Server) checkRequest(ke1 *message.CredentialRequest) error {
	if ke1 == nil {
		return ErrInvalidInput.Join(internal.ErrInvalidBlindedMessage)
	}

	sizes := s.suite.Sizes()
	if len(ke1.ClientNonce) != sizes.Nonce || len(ke1.KEMEncapsulationKey) != sizes.KEMEncapsulationKey {
		return ErrSize.Join(internal.ErrInvalidEncodingLength)
	}

	return checkElements(ke1.BlindedMessage, ke1.ClientKeyShare)
}

// StartLogin responds to the client's KE1. If file is nil, because no client is registered under the credential
// identifier, the response is computed over a fake password file derived from the setup and the identifier: the
// client can't distinguish it from a real one, and its login fails with ErrInvalidLogin.
func (s *Server) StartLogin(
	setup *ServerSetup,
	file *PasswordFile,
	ke1 *message.CredentialRequest,
	credentialIdentifier []byte,
	params *ServerLoginParameters,
) (ke2 *message.CredentialResponse, state *ServerLoginState, err error) {
	defer func() { s.suite.trace("server.start_login", err) }()

	if err = setup.usableWith(s.suite); err != nil {
		return nil, nil, err
	}

	if err = checkCredentialIdentifier(credentialIdentifier); err != nil {
		return nil, nil, err
	}

	if params == nil {
		params = &ServerLoginParameters{}
	}

	if err = params.Identifiers.validate(); err != nil {
		return nil, nil, err
	}

	context, err := selectContext(params.Context, s.context)
	if err != nil {
		return nil, nil, err
	}

	if err = s.checkRequest(ke1); err != nil {
		return nil, nil, err
	}

	conf := s.suite.configuration(nil, context)

	var record *message.RegistrationUpload

	switch {
	case file == nil:
		if record, err = setup.fakeRecord(conf, credentialIdentifier); err != nil {
			return nil, nil, err
		}
	case !s.suite.sameAs(file.suite):
		return nil, nil, ErrInvalidInput.Join(internal.ErrWrongSuite)
	default:
		record = file.RegistrationUpload
	}

	oprfKey, err := setup.oprfKey(conf, credentialIdentifier)
	if err != nil {
		return nil, nil, err
	}

	defer internal.ClearScalar(&oprfKey)

	serverPublicKey := setup.PublicKey()
	maskingNonce, maskedResponse := masking.Mask(conf, record.MaskingKey, serverPublicKey, record.Envelope)

	ke2 = &message.CredentialResponse{
		EvaluatedMessage: conf.OPRF.Evaluate(oprfKey, ke1.BlindedMessage),
		MaskingNonce:     maskingNonce,
		MaskedResponse:   maskedResponse,
	}

	identities := params.Identifiers.resolve(
		encoding.SerializePoint(record.ClientPublicKey, conf.Group),
		serverPublicKey,
	)

	output, err := ake.Respond(conf, identities, setup.privateKey, record.ClientPublicKey, ke1, ke2)
	if err != nil {
		return nil, nil, ErrSerialization.Join(err)
	}

	state = &ServerLoginState{
		suite:             s.suite.internal,
		expectedClientMac: output.ExpectedClientMac,
		sessionKey:        output.SessionKey,
	}

	return ke2, state, nil
}

// FinishLogin consumes the state, verifies the client's KE3, and returns the session key. A MAC mismatch returns
// ErrInvalidLogin. The state can't be used again, even if this call fails.
func (s *Server) FinishLogin(
	state *ServerLoginState,
	ke3 *message.CredentialFinalization,
) (sessionKey []byte, err error) {
	defer func() { s.suite.trace("server.finish_login", err) }()

	if state == nil {
		return nil, ErrInvalidState.Join(internal.ErrMissingState)
	}

	if err = state.consume(); err != nil {
		return nil, err
	}

	defer state.clear()

	if !s.suite.sameAs(state.suite) {
		return nil, ErrInvalidState.Join(internal.ErrWrongSuite)
	}

	if ke3 == nil || len(ke3.ClientMac) != s.suite.Sizes().Hash {
		return nil, ErrSize.Join(internal.ErrInvalidEncodingLength)
	}

	if err = ake.VerifyClientMac(s.suite.configuration(nil, nil), state.expectedClientMac, ke3); err != nil {
		return nil, ErrInvalidLogin
	}

	return slices.Clone(state.sessionKey), nil
}
