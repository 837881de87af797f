// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ksf_test

import (
	"bytes"
	"crypto"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/bytemare/ksf"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/encoding"
	internalKSF "github.com/bytemare/opaque-core/internal/ksf"
)

var input = []byte("oprf output")

func TestArgon2(t *testing.T) {
	a, err := internalKSF.NewArgon2(64, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}

	out := a.Stretch(input, 64)
	if len(out) != 64 {
		t.Fatalf("expected 64 bytes, got %d", len(out))
	}

	if !bytes.Equal(out, a.Stretch(input, 64)) {
		t.Fatal("expected deterministic output")
	}

	fixed, err := internalKSF.NewArgon2(64, 1, 1, 32)
	if err != nil {
		t.Fatal(err)
	}

	if len(fixed.Stretch(input, 64)) != 32 {
		t.Fatal("expected the explicit output length to take precedence")
	}
}

func TestArgon2InvalidParameters(t *testing.T) {
	for _, p := range [][3]uint32{{64, 0, 1}, {64, 1, 0}, {8, 1, 4}} {
		if _, err := internalKSF.NewArgon2(p[0], p[1], uint8(p[2]), 0); !errors.Is(err, internalKSF.ErrArgon2Parameters) {
			t.Fatalf("expected %q for %v, got %v", internalKSF.ErrArgon2Parameters, p, err)
		}
	}
}

type stretchTest struct {
	stretcher internalKSF.Stretcher
	name      string
	output    string
}

// The expected outputs are Extract(kdfSalt, password || KSF(password, ksfSalt)) with SHA-512.
func TestStretchVectors(t *testing.T) {
	ksfSalt := []byte("ksfSalt")

	named := func(id ksf.Identifier, parameters ...int) internalKSF.Stretcher {
		n, err := internalKSF.NewNamed(id, parameters)
		if err != nil {
			t.Fatal(err)
		}

		n.Salt = ksfSalt

		return n
	}

	argon, err := internalKSF.NewArgon2(65536, 3, 4, 0)
	if err != nil {
		t.Fatal(err)
	}

	argon.Salt = ksfSalt

	tests := []stretchTest{
		{
			name:      "Argon2id",
			stretcher: named(ksf.Argon2id, 3, 65536, 4),
			output:    "3e858a95d7fe77be3a6278dafa572f8a3a1d49a7154e3a0710d9a5a46358fd0993d958d0963cd88c0a907d105fadcb8c0702b02f8305f8f3c77204b63a93e469",
		},
		{
			name:      "Argon2id-x/crypto",
			stretcher: argon,
			output:    "3e858a95d7fe77be3a6278dafa572f8a3a1d49a7154e3a0710d9a5a46358fd0993d958d0963cd88c0a907d105fadcb8c0702b02f8305f8f3c77204b63a93e469",
		},
		{
			name:      "Scrypt",
			stretcher: named(ksf.Scrypt, 32768, 8, 1),
			output:    "a0d28223edab936f13d778636f1801c0368c2b8d990c5be3cf93d7d1f5ade9d7634a2b20b2f09ac2f1508be6741fcd2f4279ecf33d4b672991b107463016c37f",
		},
		{
			name:      "PBKDF2",
			stretcher: named(ksf.PBKDF2Sha512, 10000),
			output:    "35bd30915a0564dbd160402bec5163441cc3c8c3c9ee4cf2d87f0f2e228b514cf1c18a41ce9e84b3306286cd06032b296a4a2ff487945e59fcecbab7f06b3098",
		},
		{
			name:      "Identity",
			stretcher: internalKSF.Identity{},
			output:    "deba3102d5ddf4b833ff43d3d2f3fb77b9514652bb6ce7b985a091478a6c8ecaedb0354d72284202c3de9f358cba8885326403b9738835ae86b6a49fec25ab38",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			password := []byte("password")
			stretched := test.stretcher.Stretch(password, 32)

			extract := internal.NewKDF(crypto.SHA512)
			output := hex.EncodeToString(extract.Extract([]byte("kdfSalt"), encoding.Concat(password, stretched)))

			if output != test.output {
				t.Errorf("got %q, want %q", output, test.output)
			}
		})
	}
}

func TestNamedParameters(t *testing.T) {
	if _, err := internalKSF.NewNamed(ksf.Scrypt, []int{1}); !errors.Is(err, internalKSF.ErrParameters) {
		t.Fatalf("expected %q, got %v", internalKSF.ErrParameters, err)
	}

	if _, err := internalKSF.NewNamed(0, nil); !errors.Is(err, internalKSF.ErrUnavailable) {
		t.Fatalf("expected %q, got %v", internalKSF.ErrUnavailable, err)
	}

	if _, err := internalKSF.NewNamed(ksf.Bcrypt, nil); !errors.Is(err, internalKSF.ErrNotDeterministic) {
		t.Fatalf("expected %q, got %v", internalKSF.ErrNotDeterministic, err)
	}
}

func TestNamedParameterValues(t *testing.T) {
	tests := []struct {
		expected   error
		name       string
		parameters []int
		id         ksf.Identifier
	}{
		{name: "scrypt N not a power of 2", id: ksf.Scrypt, parameters: []int{3, 8, 1}, expected: internalKSF.ErrScryptParameters},
		{name: "scrypt N of 1", id: ksf.Scrypt, parameters: []int{1, 8, 1}, expected: internalKSF.ErrScryptParameters},
		{name: "scrypt N of 0", id: ksf.Scrypt, parameters: []int{0, 8, 1}, expected: internalKSF.ErrScryptParameters},
		{name: "scrypt r of 0", id: ksf.Scrypt, parameters: []int{1024, 0, 1}, expected: internalKSF.ErrScryptParameters},
		{name: "scrypt p of 0", id: ksf.Scrypt, parameters: []int{1024, 8, 0}, expected: internalKSF.ErrScryptParameters},
		{name: "scrypt too much memory", id: ksf.Scrypt, parameters: []int{1 << 30, 8, 1}, expected: internalKSF.ErrScryptParameters},
		{name: "pbkdf2 no iterations", id: ksf.PBKDF2Sha512, parameters: []int{0}, expected: internalKSF.ErrPBKDF2Parameters},
		{name: "pbkdf2 negative", id: ksf.PBKDF2Sha512, parameters: []int{-1}, expected: internalKSF.ErrPBKDF2Parameters},
		{name: "argon2 no time", id: ksf.Argon2id, parameters: []int{0, 64, 1}, expected: internalKSF.ErrArgon2Parameters},
		{name: "argon2 no threads", id: ksf.Argon2id, parameters: []int{1, 64, 0}, expected: internalKSF.ErrArgon2Parameters},
		{name: "argon2 too many threads", id: ksf.Argon2id, parameters: []int{1, 1 << 12, 256}, expected: internalKSF.ErrArgon2Parameters},
		{name: "argon2 too much memory", id: ksf.Argon2id, parameters: []int{1, internalKSF.MaxMemoryKiB + 1, 1}, expected: internalKSF.ErrArgon2Parameters},
		{name: "scrypt", id: ksf.Scrypt, parameters: []int{1024, 8, 1}},
		{name: "pbkdf2", id: ksf.PBKDF2Sha512, parameters: []int{1000}},
		{name: "argon2", id: ksf.Argon2id, parameters: []int{1, 64, 1}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			n, err := internalKSF.NewNamed(test.id, test.parameters)
			if test.expected == nil {
				if err != nil {
					t.Fatal(err)
				}

				if len(n.Stretch(input, 64)) != 64 {
					t.Fatal("unexpected output length")
				}

				return
			}

			if !errors.Is(err, test.expected) {
				t.Fatalf("expected %q, got %v", test.expected, err)
			}
		})
	}
}

func TestArgon2Bounds(t *testing.T) {
	if _, err := internalKSF.NewArgon2(internalKSF.MaxMemoryKiB+1, 1, 1, 0); !errors.Is(err, internalKSF.ErrArgon2Parameters) {
		t.Fatalf("expected %q, got %v", internalKSF.ErrArgon2Parameters, err)
	}

	if _, err := internalKSF.NewArgon2(64, 1, 1, internalKSF.MaxOutputLength+1); !errors.Is(err, internalKSF.ErrArgon2Parameters) {
		t.Fatalf("expected %q, got %v", internalKSF.ErrArgon2Parameters, err)
	}

	if _, err := internalKSF.NewArgon2(internalKSF.MaxMemoryKiB, 1, 1, internalKSF.MaxOutputLength); err != nil {
		t.Fatal(err)
	}
}

func TestIdentity(t *testing.T) {
	out := internalKSF.Identity{}.Stretch(input, 0)
	if !bytes.Equal(out, input) {
		t.Fatal("expected identity output")
	}

	out[0] ^= 0xff
	if bytes.Equal(out, input) {
		t.Fatal("expected a copy of the input")
	}
}
