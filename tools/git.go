package tools

import "strings"

// Git runs queries against the git CLI.
type Git struct {
	runner *Runner
	git    []string
}

// NewGit returns a Git honouring the GIT environment variable.
func NewGit(runner *Runner) (*Git, error) {
	git, err := CommandFromEnv(EnvGit, "git")
	if err != nil {
		return nil, err
	}
	return &Git{runner: runner, git: git}, nil
}

// Describe returns `git describe --tags --always` for the repository
// containing dir.
func (g *Git) Describe(dir string) (string, error) {
	out, err := g.runner.Output(dir, join(g.git, "describe", "--tags", "--always")...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
