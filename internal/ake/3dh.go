// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ake provides high-level functions for the 3DH AKE, optionally hybridized with a KEM.
package ake

import (
	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/tag"
	"github.com/bytemare/opaque-core/message"
)

// Identities holds the resolved client and server identities used in the transcript.
type Identities struct {
	ClientIdentity []byte
	ServerIdentity []byte
}

// KeyGen returns a fresh ephemeral key pair.
func KeyGen(conf *internal.Configuration) (*group.Scalar, *group.Element, error) {
	seed := internal.RandomBytes(internal.SeedLength)
	defer internal.ClearSlice(&seed)

	return conf.OPRF.DeriveKeyPair(seed, []byte(tag.DeriveDiffieHellmanKeyPair))
}

func diffieHellman(g group.Group, s *group.Scalar, e *group.Element) []byte {
	return encoding.SerializePoint(e.Copy().Multiply(s), g)
}

func k3dh(
	g group.Group,
	p1 *group.Element,
	s1 *group.Scalar,
	p2 *group.Element,
	s2 *group.Scalar,
	p3 *group.Element,
	s3 *group.Scalar,
) []byte {
	return encoding.Concat3(diffieHellman(g, s1, p1), diffieHellman(g, s2, p2), diffieHellman(g, s3, p3))
}

// hybridIKM returns classic || kemSecret, and wipes both inputs.
func hybridIKM(classic, kemSecret []byte) []byte {
	ikm := encoding.Concat(classic, kemSecret)

	internal.ClearSlice(&classic)
	internal.ClearSlice(&kemSecret)

	return ikm
}

func core3DH(
	conf *internal.Configuration, identities *Identities, ikm, ke1 []byte, ke2 *message.CredentialResponse,
) (sessionSecret, macS, macC []byte) {
	initTranscript(conf, identities, ke1, ke2)

	preamble := conf.Hash.Sum()
	serverMacKey, clientMacKey, sessionSecret := deriveKeys(conf.KDF, ikm, preamble)
	serverMac := conf.MAC.MAC(serverMacKey, preamble)
	conf.Hash.Write(serverMac)
	transcript3 := conf.Hash.Sum()
	clientMac := conf.MAC.MAC(clientMacKey, transcript3)

	internal.ClearSlice(&serverMacKey)
	internal.ClearSlice(&clientMacKey)

	return sessionSecret, serverMac, clientMac
}

func buildLabel(length int, label, context []byte) []byte {
	return encoding.Concat3(
		encoding.I2OSP(length, 2),
		encoding.EncodeVectorLen(append([]byte(tag.LabelPrefix), label...), 1),
		encoding.EncodeVectorLen(context, 1))
}

func expandLabel(h *internal.KDF, secret, label, context []byte) []byte {
	hkdfLabel := buildLabel(h.Size(), label, context)
	return h.Expand(secret, hkdfLabel, h.Size())
}

func deriveSecret(h *internal.KDF, secret, label, context []byte) []byte {
	return expandLabel(h, secret, label, context)
}

func initTranscript(conf *internal.Configuration, identities *Identities, ke1 []byte, ke2 *message.CredentialResponse) {
	for _, d := range [][]byte{
		[]byte(tag.VersionTag),
		encoding.EncodeVector(conf.Context),
		encoding.EncodeVector(identities.ClientIdentity),
		ke1,
		encoding.EncodeVector(identities.ServerIdentity),
		ke2.SerializeCredentials(),
		ke2.ServerNonce,
		ke2.ServerKeyShare.Encode(),
		ke2.KEMCiphertext,
	} {
		conf.Hash.Write(d)
	}
}

func deriveKeys(h *internal.KDF, ikm, context []byte) (serverMacKey, clientMacKey, sessionSecret []byte) {
	prk := h.Extract(nil, ikm)
	handshakeSecret := deriveSecret(h, prk, []byte(tag.Handshake), context)
	sessionSecret = deriveSecret(h, prk, []byte(tag.SessionKey), context)
	serverMacKey = expandLabel(h, handshakeSecret, []byte(tag.MacServer), nil)
	clientMacKey = expandLabel(h, handshakeSecret, []byte(tag.MacClient), nil)

	internal.ClearSlice(&prk)
	internal.ClearSlice(&handshakeSecret)

	return serverMacKey, clientMacKey, sessionSecret
}
