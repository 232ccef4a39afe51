//
// sysutils - process and filesystem helpers for the mbed FOTA tools
//
// Copyright (c) 2025 Canonical Ltd.
//
package sysutils

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
	"fmt"
	"os"

	"go.uber.org/multierr"
)

// WithDir runs fn with dir as the process working directory. The previous
// working directory is restored when fn returns, fails or panics.
func WithDir(dir string, fn func() error) (err error) {
	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working directory: %w", err)
	}

	if err := os.Chdir(dir); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, os.Chdir(prev))
	}()

	return fn()
}

// TempFile creates an empty temporary file and returns its path along with a
// function that removes it. The file is closed on return so that external
// programs can write to it by name.
func TempFile(pattern string) (path string, remove func() error, err error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	path = file.Name()

	remove = func() error {
		return RemoveIfExists(path)
	}

	if err := file.Close(); err != nil {
		return "", nil, multierr.Append(err, remove())
	}

	return path, remove, nil
}

// RemoveIfExists removes path, treating a missing file as success.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
