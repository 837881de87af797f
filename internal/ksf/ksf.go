// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ksf provides the Key Stretching Functions.
package ksf

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/bytemare/ksf"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltLength is the length of the fixed all-zero salt fed to the stretching functions.
	SaltLength = 16

	// MaxMemoryKiB bounds the memory any stretching function may be configured to use, 4 GiB.
	MaxMemoryKiB = 1 << 22

	// MaxOutputLength bounds an explicit Argon2id output length.
	MaxOutputLength = 1024

	// MaxScryptCost bounds scrypt's r and p.
	MaxScryptCost = 1 << 10
)

var (
	// ErrParameters indicates an invalid amount of KSF parameters.
	ErrParameters = errors.New("invalid number of KSF parameters")

	// ErrUnavailable indicates that the requested algorithm is not available.
	ErrUnavailable = errors.New("key stretching algorithm is not available")

	// ErrArgon2Parameters indicates invalid Argon2id costs.
	ErrArgon2Parameters = errors.New("invalid Argon2id parameters")

	// ErrScryptParameters indicates invalid scrypt costs.
	ErrScryptParameters = errors.New("invalid scrypt parameters")

	// ErrPBKDF2Parameters indicates an invalid PBKDF2 iteration count.
	ErrPBKDF2Parameters = errors.New("invalid PBKDF2 parameters")

	// ErrNotDeterministic indicates an algorithm that salts its output with randomness, like bcrypt.
	ErrNotDeterministic = errors.New("key stretching algorithm is not deterministic")
)

// Stretcher hardens an input against offline dictionary attacks.
type Stretcher interface {
	// Stretch returns the hardened input of the given length.
	Stretch(input []byte, length int) []byte
}

// Argon2 implements Argon2id with explicit costs.
type Argon2 struct {
	Salt        []byte
	Time        uint32
	MemoryKiB   uint32
	Length      uint32
	Parallelism uint8
}

// NewArgon2 returns an Argon2id stretcher with the given costs. A zero length means the caller's requested length.
func NewArgon2(memoryKiB, time uint32, parallelism uint8, length uint32) (*Argon2, error) {
	if time == 0 || parallelism == 0 || memoryKiB < 8*uint32(parallelism) || memoryKiB > MaxMemoryKiB {
		return nil, fmt.Errorf("%w: m=%d t=%d p=%d", ErrArgon2Parameters, memoryKiB, time, parallelism)
	}

	if length > MaxOutputLength {
		return nil, fmt.Errorf("%w: output length %d", ErrArgon2Parameters, length)
	}

	return &Argon2{
		Salt:        make([]byte, SaltLength),
		Time:        time,
		MemoryKiB:   memoryKiB,
		Length:      length,
		Parallelism: parallelism,
	}, nil
}

// Stretch implements the Stretcher interface.
func (a *Argon2) Stretch(input []byte, length int) []byte {
	l := uint32(length)
	if a.Length != 0 {
		l = a.Length
	}

	return argon2.IDKey(input, a.Salt, a.Time, a.MemoryKiB, a.Parallelism, l)
}

// Named wraps one of the algorithms of github.com/bytemare/ksf.
type Named struct {
	Salt       []byte
	Parameters []int
	ID         ksf.Identifier
}

// NewNamed returns a stretcher for the identified algorithm. If parameters are provided, they must match the amount
// of canonical parameters of the algorithm, and be within its bounds.
func NewNamed(id ksf.Identifier, parameters []int) (*Named, error) {
	if !id.Available() {
		return nil, fmt.Errorf("%w: %d", ErrUnavailable, id)
	}

	if id == ksf.Bcrypt {
		return nil, fmt.Errorf("%w: %s", ErrNotDeterministic, id)
	}

	if len(parameters) != 0 {
		if expected := len(id.Get().Params()); len(parameters) != expected {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrParameters, expected, len(parameters))
		}

		if err := checkParameters(id, parameters); err != nil {
			return nil, err
		}
	}

	return &Named{
		Salt:       make([]byte, SaltLength),
		Parameters: slices.Clone(parameters),
		ID:         id,
	}, nil
}

// checkParameters verifies parameters given in the order of github.com/bytemare/ksf.
func checkParameters(id ksf.Identifier, p []int) error {
	switch id {
	case ksf.Argon2id:
		// time, memory, threads
		if p[0] < 1 || int64(p[0]) > math.MaxUint32 || p[2] < 1 || p[2] > math.MaxUint8 ||
			p[1] < 8*p[2] || p[1] > MaxMemoryKiB {
			return fmt.Errorf("%w: t=%d m=%d p=%d", ErrArgon2Parameters, p[0], p[1], p[2])
		}
	case ksf.Scrypt:
		// N, r, p
		n, r, par := p[0], p[1], p[2]
		if n <= 1 || n&(n-1) != 0 || r < 1 || r > MaxScryptCost || par < 1 || par > MaxScryptCost ||
			int64(n) > int64(MaxMemoryKiB)*1024/int64(128*r) {
			return fmt.Errorf("%w: N=%d r=%d p=%d", ErrScryptParameters, n, r, par)
		}
	case ksf.PBKDF2Sha512:
		if p[0] < 1 {
			return fmt.Errorf("%w: %d iterations", ErrPBKDF2Parameters, p[0])
		}
	}

	return nil
}

// Stretch implements the Stretcher interface.
func (n *Named) Stretch(input []byte, length int) []byte {
	k := n.ID.Get()
	if len(n.Parameters) != 0 {
		k.Parameterize(n.Parameters...)
	}

	return k.Harden(input, n.Salt, length)
}

// Identity represents a KSF with no operations. It must only be used for testing.
type Identity struct{}

// Stretch returns a copy of the input.
func (Identity) Stretch(input []byte, _ int) []byte {
	return slices.Clone(input)
}
