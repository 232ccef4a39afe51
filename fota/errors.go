//
// fota - embeds firmware update trust material into mbed_app.json
//
// Copyright (c) 2025 Canonical Ltd.
//
package fota

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License version 3, as published
// by the Free Software Foundation.
//
// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranties of
// MERCHANTABILITY, SATISFACTORY QUALITY, or FITNESS FOR A PARTICULAR
// PURPOSE.  See the GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

import (
	"errors"
	"fmt"
)

// ErrIncompleteConfig is returned when any of the vendor-id, the class-id or
// the update certificate could not be found.
var ErrIncompleteConfig = errors.New("vendor-id, class-id and update certificate must be provided for FOTA")

// ErrInvalidID is returned when a vendor-id or class-id is not a GUID.
type ErrInvalidID struct {
	Field string
	Value string
	Err   error
}

func (e ErrInvalidID) Error() string {
	return fmt.Sprintf("%s %q is not a valid GUID: %s", e.Field, e.Value, e.Err)
}

func (e ErrInvalidID) Unwrap() error {
	return e.Err
}

// ErrNoCertificate is returned for a PEM file without a CERTIFICATE block.
type ErrNoCertificate struct {
	Path string
}

func (e ErrNoCertificate) Error() string {
	return fmt.Sprintf("%s: no CERTIFICATE block found", e.Path)
}
