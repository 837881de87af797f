// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package keyrecovery provides utility functions and structures allowing credential management.
package keyrecovery

import (
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/tag"
)

var errEnvelopeLength = errors.New("invalid envelope length")

// Credentials holds the optional client and server identities. A nil identity defaults to the party's public key.
type Credentials struct {
	ClientIdentity, ServerIdentity []byte
}

// Envelope represents the OPAQUE envelope. InnerEnvelope is empty in internal mode.
type Envelope struct {
	Nonce         []byte
	InnerEnvelope []byte
	AuthTag       []byte
}

// Serialize returns the byte serialization of the envelope.
func (e *Envelope) Serialize() []byte {
	return encoding.Concat3(e.Nonce, e.InnerEnvelope, e.AuthTag)
}

// DeserializeEnvelope splits the input into the envelope's components. The returned envelope references the input.
func DeserializeEnvelope(conf *internal.Configuration, input []byte) (*Envelope, error) {
	if len(input) != conf.EnvelopeSize {
		return nil, errEnvelopeLength
	}

	tagStart := len(input) - conf.MAC.Size()

	return &Envelope{
		Nonce:         input[:conf.NonceLen],
		InnerEnvelope: input[conf.NonceLen:tagStart],
		AuthTag:       input[tagStart:],
	}, nil
}

// MaskingKey returns the key used to mask the credential response.
func MaskingKey(conf *internal.Configuration, randomizedPassword []byte) []byte {
	return conf.KDF.Expand(randomizedPassword, []byte(tag.MaskingKey), conf.Hash.Size())
}

func exportKey(conf *internal.Configuration, randomizedPassword, nonce []byte) []byte {
	return conf.KDF.Expand(randomizedPassword, encoding.SuffixString(nonce, tag.ExportKey), conf.KDF.Size())
}

func authTag(conf *internal.Configuration, randomizedPassword, nonce, inner, ctc []byte) []byte {
	authKey := conf.KDF.Expand(randomizedPassword, encoding.SuffixString(nonce, tag.AuthKey), conf.KDF.Size())
	defer internal.ClearSlice(&authKey)

	return conf.MAC.MAC(authKey, encoding.Concat3(nonce, inner, ctc))
}

// CleartextCredentials assumes that clientPublicKey, serverPublicKey are non-nil valid group elements.
func CleartextCredentials(clientPublicKey, serverPublicKey []byte, creds *Credentials) []byte {
	clientIdentity, serverIdentity := creds.Identities(clientPublicKey, serverPublicKey)

	return encoding.Concat3(
		serverPublicKey,
		encoding.EncodeVector(serverIdentity),
		encoding.EncodeVector(clientIdentity),
	)
}

// Identities returns the client and server identities, defaulting to their respective public keys if not set.
func (c *Credentials) Identities(clientPublicKey, serverPublicKey []byte) (clientIdentity, serverIdentity []byte) {
	clientIdentity, serverIdentity = c.ClientIdentity, c.ServerIdentity
	if clientIdentity == nil {
		clientIdentity = clientPublicKey
	}

	if serverIdentity == nil {
		serverIdentity = serverPublicKey
	}

	return clientIdentity, serverIdentity
}

// DeriveDiffieHellmanKeyPair derives a key pair for the AKE from the seed.
func DeriveDiffieHellmanKeyPair(conf *internal.Configuration, seed []byte) (*group.Scalar, *group.Element, error) {
	return conf.OPRF.DeriveKeyPair(seed, []byte(tag.DeriveDiffieHellmanKeyPair))
}

func deriveClientKeyPair(
	conf *internal.Configuration,
	randomizedPassword, nonce []byte,
) (*group.Scalar, *group.Element, error) {
	seed := conf.KDF.Expand(randomizedPassword, encoding.SuffixString(nonce, tag.ExpandPrivateKey), internal.SeedLength)
	defer internal.ClearSlice(&seed)

	return DeriveDiffieHellmanKeyPair(conf, seed)
}

// Store returns the client's Envelope, its public key, the masking key for the registration, and the additional
// export key. clientSecretKey must be nil in internal mode, and set in external mode.
func Store(
	conf *internal.Configuration,
	randomizedPassword, serverPublicKey []byte,
	creds *Credentials,
	clientSecretKey *group.Scalar,
) (env *Envelope, pku *group.Element, maskingKey, export []byte, err error) {
	nonce := internal.RandomBytes(conf.NonceLen)

	var inner []byte

	switch conf.Mode {
	case internal.ExternalMode:
		if clientSecretKey == nil {
			return nil, nil, nil, nil, internal.ErrMissingClientPrivateKey
		}

		inner, pku = sealExternal(conf, randomizedPassword, nonce, clientSecretKey)
	default:
		if clientSecretKey != nil {
			return nil, nil, nil, nil, internal.ErrUnexpectedClientPrivateKey
		}

		_, pku, err = deriveClientKeyPair(conf, randomizedPassword, nonce)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}

	ctc := CleartextCredentials(
		encoding.SerializePoint(pku, conf.Group),
		serverPublicKey,
		creds,
	)

	env = &Envelope{
		Nonce:         nonce,
		InnerEnvelope: inner,
		AuthTag:       authTag(conf, randomizedPassword, nonce, inner, ctc),
	}

	return env, pku, MaskingKey(conf, randomizedPassword), exportKey(conf, randomizedPassword, nonce), nil
}

// Recover returns the client's private and public key, as well as the secret export key.
func Recover(
	conf *internal.Configuration,
	randomizedPassword, serverPublicKey []byte,
	creds *Credentials,
	envelope *Envelope,
) (clientSecretKey *group.Scalar, clientPublicKey *group.Element, export []byte, err error) {
	switch conf.Mode {
	case internal.ExternalMode:
		clientSecretKey, clientPublicKey, err = openExternal(conf, randomizedPassword, envelope.Nonce,
			envelope.InnerEnvelope)
	default:
		clientSecretKey, clientPublicKey, err = deriveClientKeyPair(conf, randomizedPassword, envelope.Nonce)
	}

	if err != nil {
		return nil, nil, nil, internal.ErrEnvelopeInvalidMac
	}

	ctc := CleartextCredentials(
		encoding.SerializePoint(clientPublicKey, conf.Group),
		serverPublicKey,
		creds,
	)

	expectedTag := authTag(conf, randomizedPassword, envelope.Nonce, envelope.InnerEnvelope, ctc)
	if !conf.MAC.Equal(expectedTag, envelope.AuthTag) {
		internal.ClearScalar(&clientSecretKey)
		return nil, nil, nil, internal.ErrEnvelopeInvalidMac
	}

	export = exportKey(conf, randomizedPassword, envelope.Nonce)

	return clientSecretKey, clientPublicKey, export, nil
}
