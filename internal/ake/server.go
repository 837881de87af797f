// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ake

import (
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/message"
)

// ServerOutput holds the values the server needs to verify the client's finalization.
type ServerOutput struct {
	ExpectedClientMac []byte
	SessionKey        []byte
}

// Respond completes the response with the server's AKE values: the nonce, the ephemeral key share, the KEM
// ciphertext in hybrid suites, and the server MAC.
func Respond(
	conf *internal.Configuration,
	identities *Identities,
	serverSecretKey *group.Scalar,
	clientPublicKey *group.Element,
	ke1 *message.CredentialRequest,
	response *message.CredentialResponse,
) (*ServerOutput, error) {
	esk, epk, err := KeyGen(conf)
	if err != nil {
		return nil, err
	}

	defer internal.ClearScalar(&esk)

	ikm := k3dh(conf.Group, ke1.ClientKeyShare, esk, ke1.ClientKeyShare, serverSecretKey, clientPublicKey, esk)
	defer internal.ClearSlice(&ikm)

	if conf.KEM != nil {
		sharedSecret, ciphertext, err := conf.KEM.Encapsulate(ke1.KEMEncapsulationKey)
		if err != nil {
			return nil, errors.Join(internal.ErrInvalidKEMKey, err)
		}

		ikm = hybridIKM(ikm, sharedSecret)
		response.KEMCiphertext = ciphertext
	}

	response.ServerNonce = internal.RandomBytes(conf.NonceLen)
	response.ServerKeyShare = epk

	sessionSecret, serverMac, clientMac := core3DH(conf, identities, ikm, ke1.Serialize(), response)
	response.ServerMac = serverMac

	return &ServerOutput{
		ExpectedClientMac: clientMac,
		SessionKey:        sessionSecret,
	}, nil
}

// VerifyClientMac verifies the authentication tag contained in the client's finalization message.
func VerifyClientMac(conf *internal.Configuration, expectedClientMac []byte, ke3 *message.CredentialFinalization) error {
	if !conf.MAC.Equal(expectedClientMac, ke3.ClientMac) {
		return internal.ErrInvalidClientMac
	}

	return nil
}
