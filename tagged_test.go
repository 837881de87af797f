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
	"testing"

	"github.com/bytemare/opaque-core"
)

func TestTagged_ServerSetup(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		setup := getSetup(t, c)

		blob, err := c.suite.EncodeTagged(opaque.KindServerSetup, setup.Serialize())
		if err != nil {
			t.Fatal(err)
		}

		loaded, err := opaque.LoadServerSetup(blob)
		if err != nil {
			t.Fatal(err)
		}

		if loaded.Suite() != c.suite.Tag() || !bytes.Equal(loaded.Serialize(), setup.Serialize()) {
			t.Fatal("server setup did not survive its tagged encoding")
		}

		expectErrors(t, func() error {
			_, err := opaque.LoadPasswordFile(blob)
			return err
		}, opaque.ErrSerialization)
	})
}

func TestTagged_PasswordFile(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		setup := getSetup(t, c)
		reg := register(t, c, setup, credentialIdentifier, password)

		blob, err := c.suite.EncodeTagged(opaque.KindPasswordFile, reg.file.Serialize())
		if err != nil {
			t.Fatal(err)
		}

		file, err := opaque.LoadPasswordFile(blob)
		if err != nil {
			t.Fatal(err)
		}

		run := startLogin(t, c, setup, file, password)

		if _, err = getClient(t, c).FinishLogin(run.clientState, password, run.ke2, clientLoginParameters()); err != nil {
			t.Fatal(err)
		}

		data, err := c.suite.Deserializer().DecodeTagged(opaque.KindPasswordFile, blob)
		if err != nil {
			t.Fatal(err)
		}

		if !bytes.Equal(data, reg.file.Serialize()) {
			t.Fatal("unexpected content")
		}

		expectErrors(t, func() error {
			_, err := c.suite.Deserializer().DecodeTagged(opaque.KindServerSetup, blob)
			return err
		}, opaque.ErrSerialization)
	})
}

func TestTagged_States(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		_, state, err := getClient(t, c).StartLogin(password)
		if err != nil {
			t.Fatal(err)
		}

		encoded, err := state.Serialize()
		if err != nil {
			t.Fatal(err)
		}

		blob, err := c.suite.EncodeTagged(opaque.KindClientLoginState, encoded)
		if err != nil {
			t.Fatal(err)
		}

		suite, kind, data, err := opaque.DecodeTagged(blob)
		if err != nil {
			t.Fatal(err)
		}

		if suite.Tag() != c.suite.Tag() || kind != opaque.KindClientLoginState || !bytes.Equal(data, encoded) {
			t.Fatal("unexpected tagged content")
		}

		if _, err = suite.Deserializer().ClientLoginState(data); err != nil {
			t.Fatal(err)
		}
	})
}

func TestTagged_Errors(t *testing.T) {
	suite := opaque.DefaultSuite()
	setup, err := suite.NewServerSetup()
	if err != nil {
		t.Fatal(err)
	}

	expectErrors(t, func() error {
		_, err := suite.EncodeTagged(opaque.Kind(42), setup.Serialize())
		return err
	}, opaque.ErrInvalidInput)

	expectErrors(t, func() error {
		_, err := suite.EncodeTagged(opaque.KindPasswordFile, setup.Serialize())
		return err
	}, opaque.ErrSize)

	expectErrors(t, func() error {
		_, _, _, err := opaque.DecodeTagged([]byte("not cbor"))
		return err
	}, opaque.ErrSerialization)

	blob, err := suite.EncodeTagged(opaque.KindServerSetup, setup.Serialize())
	if err != nil {
		t.Fatal(err)
	}

	p256, err := opaque.LookupSuite(opaque.P256Sha256)
	if err != nil {
		t.Fatal(err)
	}

	expectErrors(t, func() error {
		_, err := p256.Deserializer().DecodeTagged(opaque.KindServerSetup, blob)
		return err
	}, opaque.ErrSerialization)

	if opaque.KindServerLoginState.String() != "server_login_state" || opaque.Kind(42).String() != "unknown(42)" {
		t.Fatal("unexpected kind names")
	}
}
