//
// firmwarize - Converts an mbed application image into a LwM2M Firmware
//              Update package
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
	flags "github.com/jessevdk/go-flags"
)

type arguments struct {
	Input          string `short:"i" long:"input" description:"File which should be converted to a LwM2M Firmware Update image"`
	Output         string `short:"o" long:"output" description:"File to which the result shall be stored"`
	Target         string `short:"m" long:"target" description:"Target for which the firmware was built"`
	ForceOverwrite bool   `short:"f" long:"force-overwrite" description:"Overwrite existing output file if one exists"`
	ManifestConfig string `long:"manifest-config" description:"Configuration file for manifest-tool. If not provided, a development configuration will be used."`
	Positional     struct {
		ManifestToolArgs []string `positional-arg-name:"manifest-tool-args" description:"Additional arguments passed to manifest-tool or manifest-dev-tool"`
	} `positional-args:"yes"`
}

func newParser(args *arguments) *flags.Parser {
	parser := flags.NewParser(args, flags.Default)
	parser.Usage = "[OPTIONS] [-- manifest-tool-args...]"
	parser.ShortDescription = "Converts .bin file to a file applicable during LwM2M Firmware Update"
	parser.LongDescription = "Converts .bin file to a file applicable during LwM2M Firmware Update\n\n" +
		"Environment variables:\n" +
		"    LOGLEVEL - adjust log level (debug, info, warning, error)\n" +
		"    PYTHON   - Python interpreter running manifest-tool (default: python3)\n" +
		"    GIT      - git command used to version the package (default: git)"
	return parser
}
