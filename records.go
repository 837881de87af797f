// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"github.com/bytemare/opaque-core/internal"
	"github.com/bytemare/opaque-core/message"
)

// PasswordFile is the server-side record of a registered client, to be stored by the application under the
// credential identifier. Its encoding is client_public_key || masking_key || envelope.
type PasswordFile struct {
	*message.RegistrationUpload
	suite *internal.Suite
}

// Suite returns the tag of the suite the password file belongs to.
func (p *PasswordFile) Suite() string {
	return p.suite.Tag
}
