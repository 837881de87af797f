// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keyrecovery

import (
	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/tag"
)

func crypt(conf *internal.Configuration, randomizedPassword, nonce, input []byte) []byte {
	pad := conf.KDF.Expand(randomizedPassword, encoding.SuffixString(nonce, tag.EncryptionPad), len(input))
	defer internal.ClearSlice(&pad)

	return internal.Xor(input, pad)
}

func sealExternal(
	conf *internal.Configuration,
	randomizedPassword, nonce []byte,
	clientSecretKey *group.Scalar,
) (innerEnvelope []byte, clientPublicKey *group.Element) {
	sk := encoding.SerializeScalar(clientSecretKey, conf.Group)
	defer internal.ClearSlice(&sk)

	return crypt(conf, randomizedPassword, nonce, sk), conf.Group.Base().Multiply(clientSecretKey)
}

func openExternal(
	conf *internal.Configuration,
	randomizedPassword, nonce, innerEnvelope []byte,
) (*group.Scalar, *group.Element, error) {
	sk := crypt(conf, randomizedPassword, nonce, innerEnvelope)
	defer internal.ClearSlice(&sk)

	scalar, err := internal.DecodeScalar(conf.Group, sk)
	if err != nil {
		return nil, nil, err
	}

	return scalar, conf.Group.Base().Multiply(scalar), nil
}
