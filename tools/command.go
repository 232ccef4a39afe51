//
// tools - wrappers around the external programs the mbed FOTA workflow drives
//
// Copyright (c) 2025 Canonical Ltd.
//
package tools

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
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// Environment variables overriding the commands used for each tool.
const (
	EnvPython = "PYTHON"
	EnvMbed   = "MBED"
	EnvGit    = "GIT"
)

// CommandFromEnv splits the value of the environment variable env with shell
// quoting rules, or returns fallback when it is unset or blank.
func CommandFromEnv(env string, fallback ...string) ([]string, error) {
	value := strings.TrimSpace(os.Getenv(env))
	if value == "" {
		return fallback, nil
	}

	argv, err := shlex.Split(value)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s=%q: %w", env, value, err)
	}
	if len(argv) == 0 {
		return fallback, nil
	}

	return argv, nil
}

// ToolError reports an external program that could not be run or exited
// with a non-zero status.
type ToolError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %s", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ExitCode returns the status the program exited with, or 1 when it did not
// get to run.
func (e *ToolError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// Runner runs external programs to completion, one at a time. Their output
// goes to Stdout and Stderr unless it is captured.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// NewRunner returns a Runner wired to the process' own stdout and stderr.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

func (r *Runner) command(dir string, argv []string) *exec.Cmd {
	if r.Logger != nil {
		r.Logger.Debug("running", "command", strings.Join(argv, " "), "dir", dir)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd
}

// Run executes argv in dir, or in the current directory when dir is empty.
func (r *Runner) Run(dir string, argv ...string) error {
	if err := r.command(dir, argv).Run(); err != nil {
		return &ToolError{Args: argv, Err: err}
	}
	return nil
}

// Output executes argv in dir and returns what it wrote to stdout. Its
// stderr is reported in the error.
func (r *Runner) Output(dir string, argv ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := r.command(dir, argv)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ToolError{Args: argv, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.String(), nil
}

func join(prefix []string, args ...string) []string {
	argv := make([]string, 0, len(prefix)+len(args))
	argv = append(argv, prefix...)
	return append(argv, args...)
}
