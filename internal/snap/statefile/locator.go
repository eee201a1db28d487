// Package statefile locates and decodes the game client's locally
// persisted account-state files. It is read-only: the game's files are
// never modified.
package statefile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// StateFilePattern matches the game's persisted state files inside a
// profile directory.
const StateFilePattern = "*State.json"

// DefaultStateRoot returns the platform default directory that holds the
// game's per-profile state directories.
func DefaultStateRoot() (string, error) {
	switch runtime.GOOS {
	case "windows":
		// %LOCALAPPDATA%low\Second Dinner\SNAP\Standalone\States
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			return "", fmt.Errorf("LOCALAPPDATA is not set")
		}
		return filepath.Join(localAppData+"low", "Second Dinner", "SNAP", "Standalone", "States"), nil
	default:
		return "", fmt.Errorf("no default state directory on %s: set game_data_dir in configuration", runtime.GOOS)
	}
}

// ResolveProfile picks the profile directory under root. When profile is
// empty the directory must contain exactly one profile; otherwise the
// choice is ambiguous and the caller has to configure one.
func ResolveProfile(root, profile string) (string, error) {
	if profile != "" {
		dir := filepath.Join(root, profile)
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("profile %q under %s: %w", profile, root, ErrNoStateFile)
			}
			return "", fmt.Errorf("stat profile directory: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("profile path %s is not a directory", dir)
		}
		return dir, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("state root %s: %w", root, ErrNoStateFile)
		}
		return "", fmt.Errorf("read state root: %w", err)
	}

	var profiles []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			profiles = append(profiles, e.Name())
		}
	}
	switch len(profiles) {
	case 0:
		return "", fmt.Errorf("no profile directories under %s: %w", root, ErrNoStateFile)
	case 1:
		return filepath.Join(root, profiles[0]), nil
	default:
		sort.Strings(profiles)
		return "", &AmbiguousProfileError{Root: root, Profiles: profiles}
	}
}

// Locate returns the most recently modified account-state file in the
// resolved profile directory. Ties on modification time are broken by
// name for a deterministic answer.
func Locate(root, profile string) (string, error) {
	dir, err := ResolveProfile(root, profile)
	if err != nil {
		return "", err
	}

	matches, err := filepath.Glob(filepath.Join(dir, StateFilePattern))
	if err != nil {
		return "", fmt.Errorf("glob state files: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s files in %s: %w", StateFilePattern, dir, ErrNoStateFile)
	}

	type candidate struct {
		path string
		mod  int64
	}
	var candidates []candidate
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		candidates = append(candidates, candidate{path: path, mod: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no readable state files in %s: %w", dir, ErrNoStateFile)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].mod != candidates[j].mod {
			return candidates[i].mod > candidates[j].mod
		}
		return candidates[i].path < candidates[j].path
	})
	return candidates[0].path, nil
}
