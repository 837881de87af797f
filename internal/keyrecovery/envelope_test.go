// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keyrecovery_test

import (
	"bytes"
	"crypto"
	"errors"
	"testing"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/keyrecovery"
	"github.com/bytemare/opaque-core/internal/ksf"
	"github.com/bytemare/opaque-core/internal/masking"
)

func configurations() map[string]*internal.Configuration {
	return map[string]*internal.Configuration{
		"internal": (&internal.Suite{
			Hash: crypto.SHA512, Group: group.Ristretto255Sha512, Mode: internal.InternalMode,
		}).Configuration(ksf.Identity{}, nil),
		"external": (&internal.Suite{
			Hash: crypto.SHA256, Group: group.P256Sha256, Mode: internal.ExternalMode,
		}).Configuration(ksf.Identity{}, nil),
	}
}

func clientKey(conf *internal.Configuration) *group.Scalar {
	if conf.Mode == internal.ExternalMode {
		return conf.Group.NewScalar().Random()
	}

	return nil
}

func TestStoreRecover(t *testing.T) {
	for name, conf := range configurations() {
		t.Run(name, func(t *testing.T) {
			rp := internal.RandomBytes(conf.Hash.Size())
			serverPK := encoding.SerializePoint(conf.Group.Base().Multiply(conf.Group.NewScalar().Random()), conf.Group)
			creds := &keyrecovery.Credentials{ServerIdentity: []byte("server")}

			env, pku, maskingKey, export, err := keyrecovery.Store(conf, rp, serverPK, creds, clientKey(conf))
			if err != nil {
				t.Fatal(err)
			}

			if len(env.Serialize()) != conf.EnvelopeSize {
				t.Fatalf("unexpected envelope size %d", len(env.Serialize()))
			}

			if len(maskingKey) != conf.Hash.Size() || len(export) != conf.KDF.Size() {
				t.Fatal("unexpected key lengths")
			}

			decoded, err := keyrecovery.DeserializeEnvelope(conf, env.Serialize())
			if err != nil {
				t.Fatal(err)
			}

			sk, pk, export2, err := keyrecovery.Recover(conf, rp, serverPK, creds, decoded)
			if err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(pk.Encode(), pku.Encode()) {
				t.Fatal("recovered public key differs")
			}

			if !bytes.Equal(conf.Group.Base().Multiply(sk).Encode(), pku.Encode()) {
				t.Fatal("recovered private key does not match the public key")
			}

			if !bytes.Equal(export, export2) {
				t.Fatal("export keys differ")
			}

			// Wrong randomized password.
			if _, _, _, err = keyrecovery.Recover(conf, internal.RandomBytes(len(rp)), serverPK, creds,
				decoded); !errors.Is(err, internal.ErrEnvelopeInvalidMac) {
				t.Fatalf("expected %q, got %v", internal.ErrEnvelopeInvalidMac, err)
			}

			// Identity binding.
			other := &keyrecovery.Credentials{ServerIdentity: []byte("other server")}
			if _, _, _, err = keyrecovery.Recover(conf, rp, serverPK, other,
				decoded); !errors.Is(err, internal.ErrEnvelopeInvalidMac) {
				t.Fatalf("expected %q, got %v", internal.ErrEnvelopeInvalidMac, err)
			}
		})
	}
}

func TestStoreModeMismatch(t *testing.T) {
	confs := configurations()
	rp := internal.RandomBytes(64)
	creds := &keyrecovery.Credentials{}

	in := confs["internal"]
	serverPK := in.Group.Base().Encode()

	if _, _, _, _, err := keyrecovery.Store(in, rp, serverPK, creds,
		in.Group.NewScalar().Random()); !errors.Is(err, internal.ErrUnexpectedClientPrivateKey) {
		t.Fatalf("expected %q, got %v", internal.ErrUnexpectedClientPrivateKey, err)
	}

	ex := confs["external"]
	if _, _, _, _, err := keyrecovery.Store(ex, rp, ex.Group.Base().Encode(), creds,
		nil); !errors.Is(err, internal.ErrMissingClientPrivateKey) {
		t.Fatalf("expected %q, got %v", internal.ErrMissingClientPrivateKey, err)
	}
}

func TestCleartextCredentialsDefaults(t *testing.T) {
	ctc := keyrecovery.CleartextCredentials([]byte("cpk"), []byte("spk"), &keyrecovery.Credentials{})
	expected := []byte("spk\x00\x03spk\x00\x03cpk")

	if !bytes.Equal(ctc, expected) {
		t.Fatalf("unexpected cleartext credentials %q", ctc)
	}
}

func TestMaskUnmask(t *testing.T) {
	for name, conf := range configurations() {
		t.Run(name, func(t *testing.T) {
			rp := internal.RandomBytes(conf.Hash.Size())
			serverPK := conf.Group.Base().Multiply(conf.Group.NewScalar().Random())
			serverPKBytes := encoding.SerializePoint(serverPK, conf.Group)

			env, _, maskingKey, _, err := keyrecovery.Store(conf, rp, serverPKBytes, &keyrecovery.Credentials{},
				clientKey(conf))
			if err != nil {
				t.Fatal(err)
			}

			nonce, masked := masking.Mask(conf, maskingKey, serverPKBytes, env.Serialize())
			if len(masked) != conf.ElementLength()+conf.EnvelopeSize {
				t.Fatalf("unexpected masked response length %d", len(masked))
			}

			_, pkBytes, env2, err := masking.Unmask(conf, rp, nonce, masked)
			if err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(pkBytes, serverPKBytes) || !bytes.Equal(env2.Serialize(), env.Serialize()) {
				t.Fatal("unmasked values differ")
			}
		})
	}
}
