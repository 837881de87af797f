// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package message provides message structures for the OPAQUE protocol.
package message

import (
	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal/encoding"
)

// RegistrationRequest is the first message of the registration flow, created by the client and sent to the server.
type RegistrationRequest struct {
	BlindedMessage *group.Element `json:"blindedMessage"`
}

// Serialize returns the byte encoding of RegistrationRequest.
func (r *RegistrationRequest) Serialize() []byte {
	return r.BlindedMessage.Encode()
}

// RegistrationResponse is the second message of the registration flow, created by the server and sent to the client.
type RegistrationResponse struct {
	EvaluatedMessage *group.Element `json:"evaluatedMessage"`
	ServerPublicKey  *group.Element `json:"serverPublicKey"`
}

// Serialize returns the byte encoding of RegistrationResponse.
func (r *RegistrationResponse) Serialize() []byte {
	return encoding.Concat(r.EvaluatedMessage.Encode(), r.ServerPublicKey.Encode())
}

// RegistrationUpload is the last registration message, sent by the client to the server. The server stores it as
// the client's password file.
type RegistrationUpload struct {
	ClientPublicKey *group.Element `json:"clientPublicKey"`
	MaskingKey      []byte         `json:"maskingKey"`
	Envelope        []byte         `json:"envelope"`
}

// Serialize returns the byte encoding of RegistrationUpload.
func (r *RegistrationUpload) Serialize() []byte {
	return encoding.Concat3(r.ClientPublicKey.Encode(), r.MaskingKey, r.Envelope)
}
