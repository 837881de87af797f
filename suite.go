// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"crypto"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/internal/encoding"
	"github.com/bytemare/opaque-core/internal/kem"
	"github.com/bytemare/opaque-core/internal/ksf"
)

const (
	// Ristretto255Sha512 identifies the suite over ristretto255 with SHA-512. It is the default suite.
	Ristretto255Sha512 = "ristretto255_sha512"

	// P256Sha256 identifies the suite over NIST P-256 with SHA-256.
	P256Sha256 = "p256_sha256"

	// P384Sha384 identifies the suite over NIST P-384 with SHA-384.
	P384Sha384 = "p384_sha384"

	// P521Sha512 identifies the suite over NIST P-521 with SHA-512.
	P521Sha512 = "p521_sha512"

	// ExternalSuffix appended to a suite tag selects the external envelope mode, in which the client registers its
	// own private key instead of deriving it from the password.
	ExternalSuffix = "+external"
)

// registry is populated during package initialization and read-only afterwards.
var registry = make(map[string]*internal.Suite)

func register(tag string, g group.Group, h crypto.Hash, k kem.KEM) {
	registry[tag] = &internal.Suite{KEM: k, Tag: tag, Hash: h, Group: g, Mode: internal.InternalMode}
	external := tag + ExternalSuffix
	registry[external] = &internal.Suite{KEM: k, Tag: external, Hash: h, Group: g, Mode: internal.ExternalMode}
}

func init() {
	register(Ristretto255Sha512, group.Ristretto255Sha512, crypto.SHA512, nil)
	register(P256Sha256, group.P256Sha256, crypto.SHA256, nil)
	register(P384Sha384, group.P384Sha384, crypto.SHA384, nil)
	register(P521Sha512, group.P521Sha512, crypto.SHA512, nil)
}

var discardLogger = slog.New(slog.DiscardHandler)

// Suite is a bound set of primitives identified by its tag. A Suite is immutable and safe for concurrent use.
type Suite struct {
	internal *internal.Suite
	logger   *slog.Logger
}

// LookupSuite returns the suite registered under tag. The lookup is case-insensitive.
func LookupSuite(tag string) (*Suite, error) {
	s, ok := registry[strings.ToLower(tag)]
	if !ok {
		return nil, ErrUnknownSuite.Join(fmt.Errorf("%q", tag))
	}

	return &Suite{internal: s, logger: discardLogger}, nil
}

// DefaultSuite returns the ristretto255_sha512 suite.
func DefaultSuite() *Suite {
	return &Suite{internal: registry[Ristretto255Sha512], logger: discardLogger}
}

// AvailableSuites returns the sorted list of the suite tags compiled into the binary.
func AvailableSuites() []string {
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}

	slices.Sort(tags)

	return tags
}

// WithLogger returns a copy of the suite that logs to l. A nil logger discards the logs.
func (s *Suite) WithLogger(l *slog.Logger) *Suite {
	if l == nil {
		l = discardLogger
	}

	return &Suite{internal: s.internal, logger: l.With(slog.String("suite", s.internal.Tag))}
}

// Tag returns the suite's identifier.
func (s *Suite) Tag() string {
	return s.internal.Tag
}

// IsExternal returns whether the client supplies its own private key at registration.
func (s *Suite) IsExternal() bool {
	return s.internal.Mode == internal.ExternalMode
}

// HasKEM returns whether the key exchange is hybridized with a KEM.
func (s *Suite) HasKEM() bool {
	return s.internal.KEM != nil
}

// trace logs the outcome of a protocol step. Only the error code is logged, never the cause.
func (s *Suite) trace(step string, err error) {
	if err == nil {
		s.logger.Debug("opaque step completed", slog.String("step", step))
		return
	}

	var code ErrorCode
	errors.As(err, &code)

	s.logger.Debug("opaque step failed", slog.String("step", step), slog.String("code", code.String()))
}

func (s *Suite) configuration(stretcher ksf.Stretcher, context []byte) *internal.Configuration {
	return s.internal.Configuration(stretcher, context)
}

func (s *Suite) sameAs(other *internal.Suite) bool {
	return other != nil && other.Tag == s.internal.Tag
}

// Sizes reports the fixed encoding lengths of a suite.
type Sizes struct {
	// Element is the length of an encoded group element (Noe, Npk).
	Element int `json:"element"`

	// Scalar is the length of an encoded scalar (Nok, Nsk).
	Scalar int `json:"scalar"`

	// Hash is the output length of the hash function (Nh), which is also that of the MAC (Nm), the session key,
	// the export key, and the OPRF seed.
	Hash int `json:"hash"`

	// Nonce is the length of the nonces (Nn).
	Nonce int `json:"nonce"`

	// Envelope is the length of an envelope.
	Envelope int `json:"envelope"`

	// KEMEncapsulationKey and KEMCiphertext are zero when the suite has no KEM.
	KEMEncapsulationKey int `json:"kemEncapsulationKey"`
	KEMCiphertext       int `json:"kemCiphertext"`

	RegistrationRequest     int `json:"registrationRequest"`
	RegistrationResponse    int `json:"registrationResponse"`
	RegistrationUpload      int `json:"registrationUpload"`
	CredentialRequest       int `json:"credentialRequest"`
	CredentialResponse      int `json:"credentialResponse"`
	CredentialFinalization  int `json:"credentialFinalization"`
	ServerSetup             int `json:"serverSetup"`
	ClientRegistrationState int `json:"clientRegistrationState"`
	ClientLoginState        int `json:"clientLoginState"`
	ServerLoginState        int `json:"serverLoginState"`
}

// Sizes returns the encoding lengths of the suite.
func (s *Suite) Sizes() Sizes {
	in := s.internal
	e := encoding.PointLength[in.Group]
	sc := encoding.ScalarLength[in.Group]
	h := in.Hash.Size()
	n := internal.NonceLength
	env := in.EnvelopeSize()

	var ek, ct, dk int
	if in.KEM != nil {
		ek, ct, dk = in.KEM.EncapsulationKeySize(), in.KEM.CiphertextSize(), in.KEM.DecapsulationKeySize()
	}

	ke1 := e + n + e + ek

	return Sizes{
		Element:                 e,
		Scalar:                  sc,
		Hash:                    h,
		Nonce:                   n,
		Envelope:                env,
		KEMEncapsulationKey:     ek,
		KEMCiphertext:           ct,
		RegistrationRequest:     e,
		RegistrationResponse:    2 * e,
		RegistrationUpload:      e + h + env,
		CredentialRequest:       ke1,
		CredentialResponse:      e + n + e + env + n + e + ct + h,
		CredentialFinalization:  h,
		ServerSetup:             h + sc + e,
		ClientRegistrationState: sc + e,
		ClientLoginState:        sc + sc + ke1 + dk,
		ServerLoginState:        2 * h,
	}
}
