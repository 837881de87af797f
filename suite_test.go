// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/go-test/deep"

	"github.com/bytemare/opaque-core"
)

func TestLookupSuite(t *testing.T) {
	suite, err := opaque.LookupSuite(strings.ToUpper(opaque.P384Sha384))
	if err != nil {
		t.Fatal(err)
	}

	if suite.Tag() != opaque.P384Sha384 || suite.IsExternal() || suite.HasKEM() {
		t.Fatalf("unexpected suite %q", suite.Tag())
	}

	external, err := opaque.LookupSuite(opaque.P256Sha256 + opaque.ExternalSuffix)
	if err != nil {
		t.Fatal(err)
	}

	if !external.IsExternal() {
		t.Fatal("expected an external suite")
	}

	for _, tag := range []string{"", "ristretto255", "ristretto255_sha512+internal", "edwards25519_sha512"} {
		expectErrors(t, func() error {
			_, err := opaque.LookupSuite(tag)
			return err
		}, opaque.ErrUnknownSuite)
	}

	if opaque.DefaultSuite().Tag() != opaque.Ristretto255Sha512 {
		t.Fatal("unexpected default suite")
	}
}

func TestAvailableSuites(t *testing.T) {
	tags := opaque.AvailableSuites()

	if !slices.IsSorted(tags) {
		t.Fatal("suites are not sorted")
	}

	for _, tag := range []string{
		opaque.Ristretto255Sha512,
		opaque.P256Sha256,
		opaque.P384Sha384,
		opaque.P521Sha512,
		opaque.Ristretto255Sha512 + opaque.ExternalSuffix,
	} {
		if !slices.Contains(tags, tag) {
			t.Fatalf("missing suite %q", tag)
		}
	}

	// Every suite comes in both envelope modes.
	if len(tags)%2 != 0 {
		t.Fatalf("unexpected number of suites %d", len(tags))
	}
}

func TestSizes_Ristretto255(t *testing.T) {
	expected := opaque.Sizes{
		Element:                 32,
		Scalar:                  32,
		Hash:                    64,
		Nonce:                   32,
		Envelope:                96,
		RegistrationRequest:     32,
		RegistrationResponse:    64,
		RegistrationUpload:      192,
		CredentialRequest:       96,
		CredentialResponse:      320,
		CredentialFinalization:  64,
		ServerSetup:             128,
		ClientRegistrationState: 64,
		ClientLoginState:        160,
		ServerLoginState:        128,
	}

	if diff := deep.Equal(opaque.DefaultSuite().Sizes(), expected); diff != nil {
		t.Fatal(diff)
	}
}

func TestSizes_P256(t *testing.T) {
	suite, err := opaque.LookupSuite(opaque.P256Sha256)
	if err != nil {
		t.Fatal(err)
	}

	sizes := suite.Sizes()
	if sizes.Element != 33 || sizes.Scalar != 32 || sizes.Hash != 32 ||
		sizes.CredentialRequest != 98 || sizes.CredentialResponse != 33+32+33+64+32+33+32 {
		t.Fatalf("unexpected sizes %+v", sizes)
	}
}

// TestMessageSizes checks the encoded lengths of the messages of a full run against the reported sizes.
func TestMessageSizes(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		sizes := c.suite.Sizes()
		client, server := getClient(t, c), getServer(t, c)
		setup := getSetup(t, c)

		if len(setup.Serialize()) != sizes.ServerSetup {
			t.Fatal("unexpected server setup length")
		}

		request, state, err := client.StartRegistration(password)
		if err != nil {
			t.Fatal(err)
		}

		response, err := server.StartRegistration(setup, request, credentialIdentifier)
		if err != nil {
			t.Fatal(err)
		}

		upload, _, err := client.FinishRegistration(state, password, response, registrationParameters(t, c, client))
		if err != nil {
			t.Fatal(err)
		}

		if len(request.Serialize()) != sizes.RegistrationRequest ||
			len(response.Serialize()) != sizes.RegistrationResponse ||
			len(upload.Serialize()) != sizes.RegistrationUpload {
			t.Fatal("unexpected registration message length")
		}

		file, err := server.FinishRegistration(upload)
		if err != nil {
			t.Fatal(err)
		}

		run := startLogin(t, c, setup, file, password)

		result, err := client.FinishLogin(run.clientState, password, run.ke2, clientLoginParameters())
		if err != nil {
			t.Fatal(err)
		}

		if len(run.ke1.Serialize()) != sizes.CredentialRequest ||
			len(run.ke2.Serialize()) != sizes.CredentialResponse ||
			len(result.Finalization.Serialize()) != sizes.CredentialFinalization {
			t.Fatal("unexpected login message length")
		}
	})
}
