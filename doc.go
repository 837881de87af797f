// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package opaque implements the OPAQUE asymmetric password-authenticated key exchange (RFC 9807), over the
// RFC 9497 OPRF and a 3DH key exchange, optionally hybridized with ML-KEM-768.
//
// A server never sees the client's password, and a stolen password file does not allow an offline dictionary
// attack without the server's OPRF seed. Each registration and login is a sequence of start and finish steps:
// the start step returns a message and a single-use state, the finish step consumes that state.
//
// Registration:
//
//	client: StartRegistration(password)                        -> RegistrationRequest, state
//	server: StartRegistration(setup, request, credentialID)    -> RegistrationResponse
//	client: FinishRegistration(state, password, response, ...) -> RegistrationUpload, export key
//	server: FinishRegistration(upload)                         -> PasswordFile
//
// Login:
//
//	client: StartLogin(password)                                   -> KE1, state
//	server: StartLogin(setup, file, KE1, credentialID, ...)        -> KE2, state
//	client: FinishLogin(state, password, KE2, ...)                 -> KE3, session key, export key
//	server: FinishLogin(state, KE3)                                -> session key
//
// Storage of password files, rate limiting, and transport are the application's concern.
package opaque
