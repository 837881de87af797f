// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/bytemare/ksf"
	"github.com/go-test/deep"

	"github.com/bytemare/opaque-core"
)

func TestConfiguration_Serialization(t *testing.T) {
	tests := map[string]*opaque.Configuration{
		"default": opaque.DefaultConfiguration(),
		"identity": {
			Suite:         opaque.P256Sha256 + opaque.ExternalSuffix,
			Context:       testContext,
			KeyStretching: identityStretching,
		},
		"argon2": {
			Suite: opaque.P521Sha512,
			KeyStretching: &opaque.KeyStretching{
				Argon2: &opaque.Argon2Params{MemoryKiB: 1024, Time: 3, Parallelism: 2, OutputLength: 32},
			},
		},
		"scrypt": {
			Suite:         opaque.P384Sha384,
			KeyStretching: &opaque.KeyStretching{Algorithm: ksf.Scrypt, Parameters: []int{32768, 8, 1}},
		},
	}

	for name, conf := range tests {
		t.Run(name, func(t *testing.T) {
			encoded, err := conf.Serialize()
			if err != nil {
				t.Fatal(err)
			}

			decoded, err := opaque.DeserializeConfiguration(encoded)
			if err != nil {
				t.Fatal(err)
			}

			if diff := deep.Equal(conf, decoded); diff != nil {
				t.Fatal(diff)
			}

			again, err := decoded.Serialize()
			if err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(encoded, again) {
				t.Fatal("encoding is not deterministic")
			}
		})
	}
}

func TestConfiguration_LoggerIsNotSerialized(t *testing.T) {
	conf := opaque.DefaultConfiguration()
	conf.Logger = slog.Default()

	encoded, err := conf.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := opaque.DeserializeConfiguration(encoded)
	if err != nil {
		t.Fatal(err)
	}

	if decoded.Logger != nil {
		t.Fatal("the logger was serialized")
	}
}

func TestConfiguration_Invalid(t *testing.T) {
	unknown := &opaque.Configuration{Suite: "curve25519_sha256"}

	expectErrors(t, func() error {
		_, err := unknown.Client()
		return err
	}, opaque.ErrUnknownSuite)

	expectErrors(t, func() error {
		_, err := unknown.Server()
		return err
	}, opaque.ErrUnknownSuite)

	expectErrors(t, func() error {
		_, err := unknown.Deserializer()
		return err
	}, opaque.ErrUnknownSuite)

	encoded, err := unknown.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	expectErrors(t, func() error {
		_, err := opaque.DeserializeConfiguration(encoded)
		return err
	}, opaque.ErrUnknownSuite)

	longContext := &opaque.Configuration{
		Suite:   opaque.Ristretto255Sha512,
		Context: make([]byte, opaque.MaxIdentityLength+1),
	}

	expectErrors(t, func() error {
		_, err := longContext.Server()
		return err
	}, opaque.ErrInvalidInput)

	badStretching := &opaque.Configuration{
		Suite:         opaque.Ristretto255Sha512,
		KeyStretching: &opaque.KeyStretching{Argon2: &opaque.Argon2Params{MemoryKiB: 1, Time: 1, Parallelism: 1}},
	}

	expectErrors(t, func() error {
		_, err := badStretching.Client()
		return err
	}, opaque.ErrInvalidInput)

	encoded, err = badStretching.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	expectErrors(t, func() error {
		_, err := opaque.DeserializeConfiguration(encoded)
		return err
	}, opaque.ErrInvalidInput)

	expectErrors(t, func() error {
		_, err := opaque.DeserializeConfiguration([]byte{0xff})
		return err
	}, opaque.ErrSerialization)
}

func TestKeyStretching_String(t *testing.T) {
	tests := map[string]*opaque.KeyStretching{
		"default":                nil,
		"identity":               identityStretching,
		"memory_constrained":     {Variant: opaque.StretchMemoryConstrained},
		"argon2id(m=64,t=1,p=1)": {Argon2: &opaque.Argon2Params{MemoryKiB: 64, Time: 1, Parallelism: 1}},
		"rfc_recommended":        {Variant: opaque.StretchRFCRecommended},
		"unknown(9)":             {Variant: 9},
	}

	for expected, k := range tests {
		if s := k.String(); s != expected {
			t.Fatalf("expected %q, got %q", expected, s)
		}
	}
}

// TestConfiguration_ContextOverride verifies that per-call contexts take precedence over the configured one.
func TestConfiguration_ContextOverride(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		setup := getSetup(t, c)
		reg := register(t, c, setup, credentialIdentifier, password)
		override := []byte("per-call context")

		ke1, clientState, err := getClient(t, c).StartLogin(password)
		if err != nil {
			t.Fatal(err)
		}

		ke2, serverState, err := getServer(t, c).StartLogin(setup, reg.file, ke1, credentialIdentifier,
			&opaque.ServerLoginParameters{Identifiers: testIdentifiers, Context: override})
		if err != nil {
			t.Fatal(err)
		}

		result, err := getClient(t, c).FinishLogin(clientState, password, ke2,
			&opaque.ClientLoginFinishParameters{Identifiers: testIdentifiers, Context: override})
		if err != nil {
			t.Fatal(err)
		}

		if _, err = getServer(t, c).FinishLogin(serverState, result.Finalization); err != nil {
			t.Fatal(err)
		}
	})
}
