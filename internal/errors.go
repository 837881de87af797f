// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import "errors"

var (
	// ErrInvalidEncodingLength indicates that the input does not have the expected length.
	ErrInvalidEncodingLength = errors.New("invalid encoding length")

	// ErrInvalidElement indicates that the input is not a valid group element encoding.
	ErrInvalidElement = errors.New("invalid group element encoding")

	// ErrInvalidScalar indicates that the input is not a valid scalar encoding.
	ErrInvalidScalar = errors.New("invalid scalar encoding")

	// ErrIdentityElement indicates that a group element is the identity element.
	ErrIdentityElement = errors.New("element is the identity element")

	// ErrZeroScalar indicates that a scalar is zero.
	ErrZeroScalar = errors.New("scalar is zero")

	// ErrInvalidBlindedMessage indicates that the OPRF blinded message is invalid.
	ErrInvalidBlindedMessage = errors.New("invalid OPRF blinded message")

	// ErrInvalidEvaluatedMessage indicates that the OPRF evaluated message is invalid.
	ErrInvalidEvaluatedMessage = errors.New("invalid OPRF evaluated message")

	// ErrInvalidBlind indicates that the OPRF blind is invalid.
	ErrInvalidBlind = errors.New("invalid OPRF blind")

	// ErrInvalidClientPublicKey indicates that the client public key is invalid.
	ErrInvalidClientPublicKey = errors.New("invalid client public key")

	// ErrInvalidPrivateKey indicates that a private key is invalid.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrServerKeyMismatch indicates that the server public key does not match its private key.
	ErrServerKeyMismatch = errors.New("server public key does not match the private key")

	// ErrInvalidOPRFSeed indicates that the OPRF seed has an invalid length or is all zeros.
	ErrInvalidOPRFSeed = errors.New("invalid OPRF seed")

	// ErrEnvelopeInvalidMac indicates that the envelope's authentication tag is invalid.
	ErrEnvelopeInvalidMac = errors.New("invalid envelope authentication tag")

	// ErrInvalidServerMac indicates that the server's MAC is invalid.
	ErrInvalidServerMac = errors.New("invalid server mac")

	// ErrInvalidClientMac indicates that the client's MAC is invalid.
	ErrInvalidClientMac = errors.New("invalid client mac")

	// ErrReflectedEvaluation indicates that the server echoed the blinded message as its evaluation.
	ErrReflectedEvaluation = errors.New("evaluated message equals the blinded message")

	// ErrReflectedKeyShare indicates that the server echoed the client's key share.
	ErrReflectedKeyShare = errors.New("server key share equals the client key share")

	// ErrMissingState indicates that no state was given to a finish call.
	ErrMissingState = errors.New("missing state")

	// ErrStateConsumed indicates that a single-use state has already been used.
	ErrStateConsumed = errors.New("state has already been consumed")

	// ErrEmptyPassword indicates that the password is empty.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrPasswordTooLong indicates that the password exceeds the maximum supported length.
	ErrPasswordTooLong = errors.New("password is too long")

	// ErrIdentityTooLong indicates that an identity or a context exceeds the maximum supported length.
	ErrIdentityTooLong = errors.New("identity or context is too long")

	// ErrEmptyCredentialIdentifier indicates that the credential identifier is empty.
	ErrEmptyCredentialIdentifier = errors.New("credential identifier is empty")

	// ErrMissingClientPrivateKey indicates that the external envelope mode requires a client private key.
	ErrMissingClientPrivateKey = errors.New("the suite requires a client private key")

	// ErrUnexpectedClientPrivateKey indicates that a client private key was given to a suite that derives it.
	ErrUnexpectedClientPrivateKey = errors.New("the suite derives the client private key and does not accept one")

	// ErrInvalidKEMKey indicates that a KEM key is invalid.
	ErrInvalidKEMKey = errors.New("invalid KEM key")

	// ErrInvalidKEMCiphertext indicates that a KEM ciphertext is invalid.
	ErrInvalidKEMCiphertext = errors.New("invalid KEM ciphertext")

	// ErrInvalidKSFParameters indicates that the key stretching parameters are invalid.
	ErrInvalidKSFParameters = errors.New("invalid key stretching parameters")

	// ErrDecodingEmptyHex indicates that an empty hex string was given.
	ErrDecodingEmptyHex = errors.New("empty hex string")

	// ErrWrongSuite indicates that the encoded suite does not match the expected one.
	ErrWrongSuite = errors.New("suite mismatch")

	// ErrWrongKind indicates that the encoded blob kind does not match the expected one.
	ErrWrongKind = errors.New("blob kind mismatch")
)
