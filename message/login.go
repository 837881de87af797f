// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package message

import (
	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal/encoding"
)

// CredentialRequest is the first message of the login flow (KE1), created by the client and sent to the server.
// KEMEncapsulationKey is only set in hybrid suites.
type CredentialRequest struct {
	BlindedMessage      *group.Element `json:"blindedMessage"`
	ClientKeyShare      *group.Element `json:"clientKeyShare"`
	ClientNonce         []byte         `json:"clientNonce"`
	KEMEncapsulationKey []byte         `json:"kemEncapsulationKey,omitempty"`
}

// Serialize returns the byte encoding of CredentialRequest.
func (m *CredentialRequest) Serialize() []byte {
	return encoding.Concatenate(
		m.BlindedMessage.Encode(),
		m.ClientNonce,
		m.ClientKeyShare.Encode(),
		m.KEMEncapsulationKey,
	)
}

// CredentialResponse is the second message of the login flow (KE2), created by the server and sent to the client.
// KEMCiphertext is only set in hybrid suites.
type CredentialResponse struct {
	EvaluatedMessage *group.Element `json:"evaluatedMessage"`
	ServerKeyShare   *group.Element `json:"serverKeyShare"`
	MaskingNonce     []byte         `json:"maskingNonce"`
	MaskedResponse   []byte         `json:"maskedResponse"`
	ServerNonce      []byte         `json:"serverNonce"`
	KEMCiphertext    []byte         `json:"kemCiphertext,omitempty"`
	ServerMac        []byte         `json:"serverMac"`
}

// SerializeCredentials returns the byte encoding of the OPRF and masked credentials part of the response.
func (m *CredentialResponse) SerializeCredentials() []byte {
	return encoding.Concat3(m.EvaluatedMessage.Encode(), m.MaskingNonce, m.MaskedResponse)
}

// Serialize returns the byte encoding of CredentialResponse.
func (m *CredentialResponse) Serialize() []byte {
	return encoding.Concatenate(
		m.SerializeCredentials(),
		m.ServerNonce,
		m.ServerKeyShare.Encode(),
		m.KEMCiphertext,
		m.ServerMac,
	)
}

// CredentialFinalization is the third and last message of the login flow (KE3), created by the client and sent to
// the server.
type CredentialFinalization struct {
	ClientMac []byte `json:"clientMac"`
}

// Serialize returns the byte encoding of CredentialFinalization.
func (m *CredentialFinalization) Serialize() []byte {
	return m.ClientMac
}
