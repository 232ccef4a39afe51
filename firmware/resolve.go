//
// firmware - turns mbed build output into signed update packages
//
// Copyright (c) 2025 Canonical Ltd.
//
package firmware

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
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"launchpad.net/mbed-fota-tools/mbedconfig"
)

const (
	// BuildDir is the directory mbed compile writes its output to.
	BuildDir = "BUILD"
	// UpdateSuffix ends the name of the application image mbed builds for
	// bootloader enabled targets.
	UpdateSuffix = "_update.bin"
	// SnapshotVersion names packages built outside of a git checkout.
	SnapshotVersion = "SNAPSHOT"

	packageExt = ".pkg"
)

// Describer names the source revision of a directory.
type Describer interface {
	Describe(dir string) (string, error)
}

// TargetFromPath returns the directory name right under BUILD in path.
func TargetFromPath(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	segments := strings.Split(abs, string(filepath.Separator))
	for i, segment := range segments {
		if segment == BuildDir && i+1 < len(segments) && segments[i+1] != "" {
			return segments[i+1], true
		}
	}
	return "", false
}

// Resolver fills in the input, target and output of a package from the
// project in Dir when they are not given explicitly.
type Resolver struct {
	Dir       string
	Describer Describer
	Logger    *slog.Logger

	state       mbedconfig.State
	stateLoaded bool
	stateOK     bool
}

// Abs returns path relative to the resolver's directory.
func (r *Resolver) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(r.Dir, path)
}

// projectState reads .mbed once. A missing or malformed file just means
// nothing can be inferred from it.
func (r *Resolver) projectState() (mbedconfig.State, bool) {
	if r.stateLoaded {
		return r.state, r.stateOK
	}
	r.stateLoaded = true

	state, err := mbedconfig.ReadState(r.Dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.Logger.Debug("no project state file", "dir", r.Dir)
		return r.state, false
	case err != nil:
		r.Logger.Warn("Unable to read .mbed file", "err", err)
		return r.state, false
	}

	r.state, r.stateOK = state, true
	return r.state, true
}

// Input returns the conventional application image path for target, or
// for the target in .mbed when target is empty.
func (r *Resolver) Input(target string) (string, bool) {
	state, _ := r.projectState()
	if target == "" {
		target = state.Target
	}
	project := filepath.Base(r.Dir)

	if target == "" || state.Toolchain == "" || project == "" || project == "." || project == string(filepath.Separator) {
		r.Logger.Debug("Unable to detect input file name")
		return "", false
	}

	return filepath.Join(BuildDir, target, state.Toolchain+"-RELEASE", project+UpdateSuffix), true
}

// Target returns the target input was built for, from its path or else
// from .mbed.
func (r *Resolver) Target(input string) (string, bool) {
	if input != "" {
		if target, ok := TargetFromPath(r.Abs(input)); ok {
			r.Logger.Debug("Target detected from input file path", "target", target)
			return target, true
		}
		r.Logger.Debug("Unable to detect target name from input path", "input", input)
	}

	if state, ok := r.projectState(); ok && state.Target != "" {
		r.Logger.Debug("Target detected from .mbed file", "target", state.Target)
		return state.Target, true
	}

	r.Logger.Debug("Unable to detect target name from .mbed file")
	return "", false
}

// Version describes the revision the image in input was built from.
func (r *Resolver) Version(input string) string {
	version, err := r.Describer.Describe(filepath.Dir(r.Abs(input)))
	if err != nil || version == "" {
		r.Logger.Warn("Unable to get version from git", "err", err)
		return SnapshotVersion
	}
	return version
}

// Output returns the default package path for input.
func (r *Resolver) Output(input, target string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s_%s_%s%s", base, target, r.Version(input), packageExt)
}
