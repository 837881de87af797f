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
	"errors"
	"testing"

	"github.com/bytemare/opaque-core"
	"github.com/bytemare/opaque-core/message"
)

var (
	password             = []byte("password")
	credentialIdentifier = []byte("credentialIdentifier")
	testContext          = []byte("OPAQUETest")
	testIdentifiers      = &opaque.Identifiers{Client: []byte("client"), Server: []byte("server")}
	identityStretching   = &opaque.KeyStretching{Variant: opaque.StretchIdentity}
)

type configuration struct {
	conf  *opaque.Configuration
	suite *opaque.Suite
	name  string
}

var configurationTable []*configuration

func init() {
	for _, tag := range opaque.AvailableSuites() {
		conf := &opaque.Configuration{
			Suite:         tag,
			Context:       testContext,
			KeyStretching: identityStretching,
		}

		suite, err := opaque.LookupSuite(tag)
		if err != nil {
			panic(err)
		}

		configurationTable = append(configurationTable, &configuration{conf: conf, suite: suite, name: tag})
	}
}

func testAll(t *testing.T, f func(*testing.T, *configuration)) {
	for _, test := range configurationTable {
		t.Run(test.name, func(t *testing.T) {
			f(t, test)
		})
	}
}

func expectErrors(t *testing.T, f func() error, expected ...error) {
	t.Helper()

	err := f()
	if err == nil {
		t.Fatal("expected an error")
	}

	for _, e := range expected {
		if !errors.Is(err, e) {
			t.Fatalf("expected error %q in chain, got %+v", e, err)
		}
	}
}

func getClient(t *testing.T, c *configuration) *opaque.Client {
	t.Helper()

	client, err := c.conf.Client()
	if err != nil {
		t.Fatal(err)
	}

	return client
}

func getServer(t *testing.T, c *configuration) *opaque.Server {
	t.Helper()

	server, err := c.conf.Server()
	if err != nil {
		t.Fatal(err)
	}

	return server
}

func getSetup(t *testing.T, c *configuration) *opaque.ServerSetup {
	t.Helper()

	setup, err := c.suite.NewServerSetup()
	if err != nil {
		t.Fatal(err)
	}

	return setup
}

// badElement returns bytes of element length that don't decode in any of the groups.
func badElement(c *configuration) []byte {
	return bytes.Repeat([]byte{0xff}, c.suite.Sizes().Element)
}

// registrationParameters returns the parameters for the suite, with a fresh client key in external suites.
func registrationParameters(t *testing.T, c *configuration, client *opaque.Client) *opaque.ClientRegistrationFinishParameters {
	t.Helper()

	params := &opaque.ClientRegistrationFinishParameters{Identifiers: testIdentifiers}

	if c.suite.IsExternal() {
		sk, _, err := client.KeyGen()
		if err != nil {
			t.Fatal(err)
		}

		params.ClientPrivateKey = sk
	}

	return params
}

type registration struct {
	file      *opaque.PasswordFile
	exportKey []byte
}

func register(
	t *testing.T,
	c *configuration,
	setup *opaque.ServerSetup,
	credID []byte,
	pwd []byte,
) *registration {
	t.Helper()

	client := getClient(t, c)
	server := getServer(t, c)

	request, state, err := client.StartRegistration(pwd)
	if err != nil {
		t.Fatal(err)
	}

	response, err := server.StartRegistration(setup, request, credID)
	if err != nil {
		t.Fatal(err)
	}

	upload, exportKey, err := client.FinishRegistration(state, pwd, response, registrationParameters(t, c, client))
	if err != nil {
		t.Fatal(err)
	}

	file, err := server.FinishRegistration(upload)
	if err != nil {
		t.Fatal(err)
	}

	return &registration{file: file, exportKey: exportKey}
}

type loginRun struct {
	ke1          *message.CredentialRequest
	ke2          *message.CredentialResponse
	clientState  *opaque.ClientLoginState
	serverState  *opaque.ServerLoginState
	clientResult *opaque.ClientLoginResult
}

// startLogin runs the first two login messages.
func startLogin(
	t *testing.T,
	c *configuration,
	setup *opaque.ServerSetup,
	file *opaque.PasswordFile,
	pwd []byte,
) *loginRun {
	t.Helper()

	ke1, clientState, err := getClient(t, c).StartLogin(pwd)
	if err != nil {
		t.Fatal(err)
	}

	ke2, serverState, err := getServer(t, c).StartLogin(
		setup,
		file,
		ke1,
		credentialIdentifier,
		&opaque.ServerLoginParameters{Identifiers: testIdentifiers},
	)
	if err != nil {
		t.Fatal(err)
	}

	return &loginRun{ke1: ke1, ke2: ke2, clientState: clientState, serverState: serverState}
}

func clientLoginParameters() *opaque.ClientLoginFinishParameters {
	return &opaque.ClientLoginFinishParameters{Identifiers: testIdentifiers}
}
