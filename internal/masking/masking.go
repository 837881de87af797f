// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package masking provides the credential masking mechanism.
package masking

import (
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/keyrecovery"
	"github.com/bytemare/opaque-core/internal/tag"
)

// errInvalidPKS happens when the server sends an invalid public key.
var errInvalidPKS = errors.New("invalid server public key")

func xorResponse(conf *internal.Configuration, key, nonce, in []byte) []byte {
	pad := conf.KDF.Expand(
		key,
		encoding.SuffixString(nonce, tag.CredentialResponsePad),
		conf.ElementLength()+conf.EnvelopeSize,
	)
	defer internal.ClearSlice(&pad)

	return internal.Xor(pad, in)
}

// Mask encrypts the serverPublicKey and the envelope under a fresh nonce and the maskingKey.
func Mask(conf *internal.Configuration, maskingKey, serverPublicKey, envelope []byte) (nonce, maskedResponse []byte) {
	nonce = internal.RandomBytes(conf.NonceLen)
	plain := encoding.Concat(serverPublicKey, envelope)

	return nonce, xorResponse(conf, maskingKey, nonce, plain)
}

// Unmask decrypts the maskedResponse and returns the server's public key and the envelope on success.
// This function assumes that maskedResponse has been checked to be of length pointLength + envelope size.
func Unmask(
	conf *internal.Configuration,
	randomizedPassword, nonce, maskedResponse []byte,
) (serverPublicKey *group.Element, serverPublicKeyBytes []byte, envelope *keyrecovery.Envelope, err error) {
	maskingKey := keyrecovery.MaskingKey(conf, randomizedPassword)
	defer internal.ClearSlice(&maskingKey)

	plain := xorResponse(conf, maskingKey, nonce, maskedResponse)
	serverPublicKeyBytes = plain[:conf.ElementLength()]

	envelope, err = keyrecovery.DeserializeEnvelope(conf, plain[conf.ElementLength():])
	if err != nil {
		return nil, nil, nil, err
	}

	serverPublicKey, err = internal.DecodeElement(conf.Group, serverPublicKeyBytes)
	if err != nil {
		return nil, nil, nil, errors.Join(errInvalidPKS, err)
	}

	return serverPublicKey, serverPublicKeyBytes, envelope, nil
}
