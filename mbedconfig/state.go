//
// mbedconfig - mbed project state and application configuration
//
// Copyright (c) 2025 Canonical Ltd.
//
package mbedconfig

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
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StateFile is the name of the project state file mbed CLI reads.
const StateFile = ".mbed"

// DefaultToolchain is the toolchain recorded by bootstrap.
const DefaultToolchain = "GCC_ARM"

const (
	keyRoot      = "ROOT"
	keyTarget    = "TARGET"
	keyToolchain = "TOOLCHAIN"
)

// State is the KEY=VALUE record mbed CLI keeps in .mbed.
type State struct {
	Root      string
	Target    string
	Toolchain string
}

// ErrMalformedState is returned for a .mbed line that is not KEY=VALUE.
type ErrMalformedState struct {
	Path string
	Line int
	Text string
}

func (e ErrMalformedState) Error() string {
	return fmt.Sprintf("%s:%d: expected KEY=VALUE, got %q", e.Path, e.Line, e.Text)
}

// Encode renders s in ROOT, TARGET, TOOLCHAIN order, leaving out empty
// fields.
func (s State) Encode() []byte {
	var buf bytes.Buffer
	for _, kv := range [][2]string{
		{keyRoot, s.Root},
		{keyTarget, s.Target},
		{keyToolchain, s.Toolchain},
	} {
		if kv[1] == "" {
			continue
		}
		fmt.Fprintf(&buf, "%s=%s\n", kv[0], kv[1])
	}
	return buf.Bytes()
}

// WriteState replaces the .mbed file in dir with s.
func WriteState(dir string, s State) error {
	return os.WriteFile(filepath.Join(dir, StateFile), s.Encode(), 0644)
}

// ReadState parses the .mbed file in dir. Keys other than ROOT, TARGET and
// TOOLCHAIN are ignored; blank lines are skipped.
func ReadState(dir string) (State, error) {
	var s State

	path := filepath.Join(dir, StateFile)
	f, err := os.Open(path)
	if err != nil {
		return s, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return State{}, ErrMalformedState{Path: path, Line: n, Text: line}
		}

		switch key {
		case keyRoot:
			s.Root = value
		case keyTarget:
			s.Target = value
		case keyToolchain:
			s.Toolchain = value
		}
	}

	return s, scanner.Err()
}
