package halyard

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// configFileName is the file looked for in every discovery location.
const configFileName = "config.json"

// resolver computes the configuration file path for a Load call. The
// provider fields read ambient state (cwd, home, config dir, filesystem)
// and are injectable so resolution is testable without a real filesystem.
type resolver struct {
	getwd      func() (string, error)
	homeDir    func() string
	configHome func() string
	etcDir     string
	stat       func(string) (fs.FileInfo, error)
}

func newResolver() *resolver {
	return &resolver{
		getwd:      os.Getwd,
		homeDir:    func() string { return xdg.Home },
		configHome: func() string { return xdg.ConfigHome },
		etcDir:     "/etc",
		stat:       os.Stat,
	}
}

// resolve returns the single path to load. An explicit path wins
// unconditionally (tilde-expanded, no existence probe). Otherwise the
// first existing candidate wins: ./config.json, then
// <configHome>/<identity>/config.json, then <etc>/<identity>/config.json.
// When nothing exists the first candidate is still returned alongside the
// failure so the caller can report it.
func (r *resolver) resolve(identity, explicit string) (string, error) {
	if explicit != "" {
		return r.expandTilde(explicit), nil
	}

	cwd, err := r.getwd()
	if err != nil {
		return "", err
	}

	candidates := []string{
		filepath.Join(cwd, configFileName),
		filepath.Join(r.configHome(), identity, configFileName),
		filepath.Join(r.etcDir, identity, configFileName),
	}

	for _, candidate := range candidates {
		if _, err := r.stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return candidates[0], fail(MsgNoConfigFile)
}

// expandTilde maps a leading "~" to the caller's home directory.
func (r *resolver) expandTilde(path string) string {
	if path == "~" {
		return r.homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(r.homeDir(), path[2:])
	}
	return path
}
