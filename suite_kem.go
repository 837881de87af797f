// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

//go:build !opaque_nokem

package opaque

import (
	"crypto"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal/kem"
)

// MLKEM768Ristretto255Sha512 identifies the hybrid suite combining the ristretto255 3DH with ML-KEM-768.
// Building with the opaque_nokem tag removes it.
const MLKEM768Ristretto255Sha512 = "ml_kem_768_ristretto255_sha512"

func init() {
	register(MLKEM768Ristretto255Sha512, group.Ristretto255Sha512, crypto.SHA512, kem.MLKEM768{})
}
