// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/bytemare/opaque-core/internal"
)

// Kind identifies what a tagged blob holds.
type Kind byte

const (
	// KindServerSetup is a serialized ServerSetup.
	KindServerSetup Kind = iota + 1

	// KindPasswordFile is a serialized PasswordFile.
	KindPasswordFile

	// KindClientRegistrationState is a serialized ClientRegistrationState.
	KindClientRegistrationState

	// KindClientLoginState is a serialized ClientLoginState.
	KindClientLoginState

	// KindServerLoginState is a serialized ServerLoginState.
	KindServerLoginState
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindServerSetup:
		return "server_setup"
	case KindPasswordFile:
		return "password_file"
	case KindClientRegistrationState:
		return "client_registration_state"
	case KindClientLoginState:
		return "client_login_state"
	case KindServerLoginState:
		return "server_login_state"
	default:
		return fmt.Sprintf("unknown(%d)", byte(k))
	}
}

func (k Kind) size(s Sizes) (int, bool) {
	switch k {
	case KindServerSetup:
		return s.ServerSetup, true
	case KindPasswordFile:
		return s.RegistrationUpload, true
	case KindClientRegistrationState:
		return s.ClientRegistrationState, true
	case KindClientLoginState:
		return s.ClientLoginState, true
	case KindServerLoginState:
		return s.ServerLoginState, true
	default:
		return 0, false
	}
}

type taggedBlob struct {
	Suite string `cbor:"1,keyasint"`
	Data  []byte `cbor:"3,keyasint"`
	Kind  Kind   `cbor:"2,keyasint"`
}

// EncodeTagged wraps the raw serialization of a value of the given kind into a CBOR record that also carries the
// suite tag, so that the value can later be loaded without knowing its suite.
func (s *Suite) EncodeTagged(kind Kind, data []byte) ([]byte, error) {
	expected, ok := kind.size(s.Sizes())
	if !ok {
		return nil, ErrInvalidInput.Join(internal.ErrWrongKind, fmt.Errorf("%s", kind))
	}

	if err := checkLength(kind.String(), data, expected); err != nil {
		return nil, err
	}

	out, err := cborEncoding.Marshal(&taggedBlob{Suite: s.Tag(), Data: data, Kind: kind})
	if err != nil {
		return nil, ErrSerialization.Join(err)
	}

	return out, nil
}

// DecodeTagged opens a tagged blob, and returns its suite, its kind, and the raw serialization it holds.
func DecodeTagged(blob []byte) (*Suite, Kind, []byte, error) {
	var t taggedBlob
	if err := cbor.Unmarshal(blob, &t); err != nil {
		return nil, 0, nil, ErrSerialization.Join(err)
	}

	suite, err := LookupSuite(t.Suite)
	if err != nil {
		return nil, 0, nil, err
	}

	expected, ok := t.Kind.size(suite.Sizes())
	if !ok {
		return nil, 0, nil, ErrSerialization.Join(internal.ErrWrongKind, fmt.Errorf("%s", t.Kind))
	}

	if err = checkLength(t.Kind.String(), t.Data, expected); err != nil {
		return nil, 0, nil, err
	}

	return suite, t.Kind, t.Data, nil
}

// DecodeTagged opens a tagged blob, and returns its content if it holds a value of the given kind for the
// deserializer's suite.
func (d *Deserializer) DecodeTagged(kind Kind, blob []byte) ([]byte, error) {
	suite, k, data, err := DecodeTagged(blob)
	if err != nil {
		return nil, err
	}

	if suite.Tag() != d.suite.Tag() {
		return nil, ErrSerialization.Join(
			internal.ErrWrongSuite,
			fmt.Errorf("expected %q, got %q", d.suite.Tag(), suite.Tag()),
		)
	}

	if k != kind {
		return nil, ErrSerialization.Join(internal.ErrWrongKind, fmt.Errorf("expected %s, got %s", kind, k))
	}

	return data, nil
}

// LoadServerSetup decodes a tagged server setup of any available suite.
func LoadServerSetup(blob []byte) (*ServerSetup, error) {
	suite, kind, data, err := DecodeTagged(blob)
	if err != nil {
		return nil, err
	}

	if kind != KindServerSetup {
		return nil, ErrSerialization.Join(internal.ErrWrongKind, fmt.Errorf("got %s", kind))
	}

	return suite.Deserializer().ServerSetup(data)
}

// LoadPasswordFile decodes a tagged password file of any available suite.
func LoadPasswordFile(blob []byte) (*PasswordFile, error) {
	suite, kind, data, err := DecodeTagged(blob)
	if err != nil {
		return nil, err
	}

	if kind != KindPasswordFile {
		return nil, ErrSerialization.Join(internal.ErrWrongKind, fmt.Errorf("got %s", kind))
	}

	return suite.Deserializer().PasswordFile(data)
}
