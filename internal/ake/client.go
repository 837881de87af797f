// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ake

import (
	"crypto/subtle"
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/message"
)

// ClientSecrets holds the client's ephemeral secrets between the first and the last login message.
type ClientSecrets struct {
	EphemeralSecretKey  *group.Scalar
	KEMDecapsulationKey []byte
}

// Flush attempts to zero out the secrets, and sets them to nil.
func (c *ClientSecrets) Flush() {
	internal.ClearScalar(&c.EphemeralSecretKey)
	internal.ClearSlice(&c.KEMDecapsulationKey)
}

// Start sets the client's nonce, ephemeral key share and KEM encapsulation key in the request, and returns the
// associated secrets.
func Start(conf *internal.Configuration, ke1 *message.CredentialRequest) (*ClientSecrets, error) {
	esk, epk, err := KeyGen(conf)
	if err != nil {
		return nil, err
	}

	secrets := &ClientSecrets{EphemeralSecretKey: esk}

	if conf.KEM != nil {
		dk, ek, err := conf.KEM.GenerateKey()
		if err != nil {
			return nil, err
		}

		secrets.KEMDecapsulationKey = dk
		ke1.KEMEncapsulationKey = ek
	}

	ke1.ClientNonce = internal.RandomBytes(conf.NonceLen)
	ke1.ClientKeyShare = epk

	return secrets, nil
}

// Finalize verifies the server's MAC and returns the client's finalization message and the session key.
func Finalize(
	conf *internal.Configuration,
	identities *Identities,
	secrets *ClientSecrets,
	clientSecretKey *group.Scalar,
	serverPublicKey *group.Element,
	ke1 *message.CredentialRequest,
	ke2 *message.CredentialResponse,
) (*message.CredentialFinalization, []byte, error) {
	if subtle.ConstantTimeCompare(ke2.ServerKeyShare.Encode(), ke1.ClientKeyShare.Encode()) == 1 {
		return nil, nil, internal.ErrReflectedKeyShare
	}

	ikm := k3dh(conf.Group,
		ke2.ServerKeyShare, secrets.EphemeralSecretKey,
		serverPublicKey, secrets.EphemeralSecretKey,
		ke2.ServerKeyShare, clientSecretKey,
	)
	defer internal.ClearSlice(&ikm)

	if conf.KEM != nil {
		sharedSecret, err := conf.KEM.Decapsulate(secrets.KEMDecapsulationKey, ke2.KEMCiphertext)
		if err != nil {
			return nil, nil, errors.Join(internal.ErrInvalidKEMCiphertext, err)
		}

		ikm = hybridIKM(ikm, sharedSecret)
	}

	sessionSecret, serverMac, clientMac := core3DH(conf, identities, ikm, ke1.Serialize(), ke2)
	if !conf.MAC.Equal(serverMac, ke2.ServerMac) {
		internal.ClearSlice(&sessionSecret)
		return nil, nil, internal.ErrInvalidServerMac
	}

	return &message.CredentialFinalization{ClientMac: clientMac}, sessionSecret, nil
}
