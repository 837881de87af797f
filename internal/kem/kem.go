// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package kem provides the key encapsulation mechanisms used to hybridize the AKE.
package kem

import (
	"crypto/mlkem"
	"errors"
	"fmt"
)

var (
	errEncapsulationKey = errors.New("invalid encapsulation key")
	errDecapsulationKey = errors.New("invalid decapsulation key")
	errCiphertext       = errors.New("invalid ciphertext")
)

// KEM is a key encapsulation mechanism with fixed-size encodings.
type KEM interface {
	// Name returns the mechanism's name.
	Name() string

	// EncapsulationKeySize returns the byte length of an encoded encapsulation key.
	EncapsulationKeySize() int

	// DecapsulationKeySize returns the byte length of an encoded decapsulation key.
	DecapsulationKeySize() int

	// CiphertextSize returns the byte length of a ciphertext.
	CiphertextSize() int

	// SharedSecretSize returns the byte length of the shared secret.
	SharedSecretSize() int

	// GenerateKey returns a new encoded decapsulation key and its encapsulation key.
	GenerateKey() (decapsulationKey, encapsulationKey []byte, err error)

	// Encapsulate returns a fresh shared secret and its ciphertext for the encapsulation key.
	Encapsulate(encapsulationKey []byte) (sharedSecret, ciphertext []byte, err error)

	// Decapsulate recovers the shared secret from the ciphertext.
	Decapsulate(decapsulationKey, ciphertext []byte) ([]byte, error)
}

// MLKEM768 implements ML-KEM-768 as specified in FIPS 203.
type MLKEM768 struct{}

// Name implements the KEM interface.
func (MLKEM768) Name() string {
	return "ML-KEM-768"
}

// EncapsulationKeySize implements the KEM interface.
func (MLKEM768) EncapsulationKeySize() int {
	return mlkem.EncapsulationKeySize768
}

// DecapsulationKeySize implements the KEM interface. Decapsulation keys are encoded as their seed.
func (MLKEM768) DecapsulationKeySize() int {
	return mlkem.SeedSize
}

// CiphertextSize implements the KEM interface.
func (MLKEM768) CiphertextSize() int {
	return mlkem.CiphertextSize768
}

// SharedSecretSize implements the KEM interface.
func (MLKEM768) SharedSecretSize() int {
	return mlkem.SharedKeySize
}

// GenerateKey implements the KEM interface.
func (MLKEM768) GenerateKey() (decapsulationKey, encapsulationKey []byte, err error) {
	dk, err := mlkem.GenerateKey768()
	if err != nil {
		return nil, nil, fmt.Errorf("generating ML-KEM-768 key: %w", err)
	}

	return dk.Bytes(), dk.EncapsulationKey().Bytes(), nil
}

// Encapsulate implements the KEM interface.
func (MLKEM768) Encapsulate(encapsulationKey []byte) (sharedSecret, ciphertext []byte, err error) {
	ek, err := mlkem.NewEncapsulationKey768(encapsulationKey)
	if err != nil {
		return nil, nil, errors.Join(errEncapsulationKey, err)
	}

	sharedSecret, ciphertext = ek.Encapsulate()

	return sharedSecret, ciphertext, nil
}

// Decapsulate implements the KEM interface.
func (MLKEM768) Decapsulate(decapsulationKey, ciphertext []byte) ([]byte, error) {
	dk, err := mlkem.NewDecapsulationKey768(decapsulationKey)
	if err != nil {
		return nil, errors.Join(errDecapsulationKey, err)
	}

	sharedSecret, err := dk.Decapsulate(ciphertext)
	if err != nil {
		return nil, errors.Join(errCiphertext, err)
	}

	return sharedSecret, nil
}
