//
// bootstrap - Prepares an mbed project for a board, building its bootloader
//             and embedding FOTA trust material when the board needs them
//
// Copyright (c) 2025 Canonical Ltd.
//
package main

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
	"sort"
	"strings"

	flags "github.com/jessevdk/go-flags"
)

type arguments struct {
	Target            string `long:"target" required:"true" description:"Name of the board to prepare the build for"`
	ManifestConfig    string `long:"manifest-config" description:"Configuration file for manifest-tool. If not provided, a development configuration will be used and created if necessary."`
	UpdateCertificate string `long:"update-certificate" description:"Certificate file that will be used for verifying the update images. May be empty for development configuration."`
	ProjectDir        string `long:"project-dir" default:"." description:"Root of the project, containing mbed_app.json"`
}

func newParser(args *arguments) *flags.Parser {
	parser := flags.NewParser(args, flags.Default)
	parser.ShortDescription = "Initializes the project"
	parser.LongDescription = "Initializes the project, by setting up the target and compiling bootloader\n\n" +
		"Environment variables:\n" +
		"    LOGLEVEL - adjust log level (debug, info, warning, error)\n" +
		"    MBED     - mbed CLI command (default: mbed)\n" +
		"    PYTHON   - Python interpreter (default: python3)"
	return parser
}

// validateTarget rejects targets without an entry in target_overrides.
func validateTarget(target string, known []string) error {
	i := sort.SearchStrings(known, target)
	if i < len(known) && known[i] == target {
		return nil
	}

	return &flags.Error{
		Type: flags.ErrInvalidChoice,
		Message: fmt.Sprintf("invalid argument for flag `--target' (expected one of [%s], got %q)",
			strings.Join(known, ", "), target),
	}
}
