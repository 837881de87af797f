// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"crypto/subtle"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/ake"
	"github.com/bytemare/opaque-core/internal/keyrecovery"
)

// Identifiers are the optional identities of the client and the server. A nil identity defaults to the party's
// public key. Both parties must use the same identifiers at registration and at login.
type Identifiers struct {
	Client []byte `json:"client,omitempty"`
	Server []byte `json:"server,omitempty"`
}

func (i *Identifiers) validate() error {
	if i == nil {
		return nil
	}

	if len(i.Client) > MaxIdentityLength || len(i.Server) > MaxIdentityLength {
		return ErrInvalidInput.Join(internal.ErrIdentityTooLong)
	}

	return nil
}

func (i *Identifiers) credentials() *keyrecovery.Credentials {
	if i == nil {
		return &keyrecovery.Credentials{}
	}

	return &keyrecovery.Credentials{ClientIdentity: i.Client, ServerIdentity: i.Server}
}

// resolve returns the transcript identities, defaulting to the public keys.
func (i *Identifiers) resolve(clientPublicKey, serverPublicKey []byte) *ake.Identities {
	c, s := i.credentials().Identities(clientPublicKey, serverPublicKey)
	return &ake.Identities{ClientIdentity: c, ServerIdentity: s}
}

// ClientRegistrationFinishParameters are the optional inputs of Client.FinishRegistration.
type ClientRegistrationFinishParameters struct {
	// KeyStretching overrides the client's key stretching.
	KeyStretching *KeyStretching

	// Identifiers are bound into the envelope.
	Identifiers *Identifiers

	// ClientPrivateKey is required by external suites, and rejected by the others.
	ClientPrivateKey []byte
}

// ServerLoginParameters are the optional inputs of Server.StartLogin.
type ServerLoginParameters struct {
	// Identifiers must be those used at registration.
	Identifiers *Identifiers

	// Context overrides the server's application context when non-nil.
	Context []byte
}

// ClientLoginFinishParameters are the optional inputs of Client.FinishLogin.
type ClientLoginFinishParameters struct {
	// KeyStretching overrides the client's key stretching.
	KeyStretching *KeyStretching

	// Identifiers must be those used at registration.
	Identifiers *Identifiers

	// Context overrides the client's application context when non-nil.
	Context []byte

	// ServerPublicKey, if set, pins the server's public key: the login fails if the server presents another one.
	ServerPublicKey []byte
}

func selectContext(override, fallback []byte) ([]byte, error) {
	if override == nil {
		return fallback, nil
	}

	if len(override) > MaxIdentityLength {
		return nil, ErrInvalidInput.Join(internal.ErrIdentityTooLong)
	}

	return override, nil
}

func validatePassword(password []byte) error {
	switch {
	case len(password) == 0:
		return ErrInvalidInput.Join(internal.ErrEmptyPassword)
	case len(password) > MaxPasswordLength:
		return ErrInvalidInput.Join(internal.ErrPasswordTooLong)
	default:
		return nil
	}
}

// VerifyServerPublicKey compares, in constant time, the server public key returned by a login with the expected one.
// It returns ErrInvalidLogin on mismatch.
func VerifyServerPublicKey(expected, actual []byte) error {
	if len(expected) == 0 || subtle.ConstantTimeCompare(expected, actual) != 1 {
		return ErrInvalidLogin
	}

	return nil
}
