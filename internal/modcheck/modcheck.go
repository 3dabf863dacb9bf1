// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modcheck inspects a Go module's go.mod for compatibility with
// sharedptr: the go directive, the required sharedptr version and any
// replace directive pointing it elsewhere.
package modcheck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"
)

// ModulePath is the import path checked for in require and replace
// directives.
const ModulePath = "github.com/kolkov/sharedptr"

// ErrNoGoMod is returned when no go.mod exists in or above the start
// directory.
var ErrNoGoMod = errors.New("modcheck: no go.mod found")

// Replace is one replace directive affecting sharedptr, with a local
// target made absolute.
type Replace struct {
	OldVersion string `json:"old_version,omitempty" yaml:"old_version,omitempty"`
	New        string `json:"new" yaml:"new"`
	NewVersion string `json:"new_version,omitempty" yaml:"new_version,omitempty"`
	Local      bool   `json:"local" yaml:"local"`
}

// Report is the result of checking one go.mod.
type Report struct {
	GoMod    string    `json:"go_mod" yaml:"go_mod"`
	Module   string    `json:"module" yaml:"module"`
	Go       string    `json:"go" yaml:"go"`
	MinGo    string    `json:"min_go" yaml:"min_go"`
	GoOK     bool      `json:"go_ok" yaml:"go_ok"`
	Required string    `json:"required,omitempty" yaml:"required,omitempty"`
	Indirect bool      `json:"indirect,omitempty" yaml:"indirect,omitempty"`
	Replaces []Replace `json:"replaces,omitempty" yaml:"replaces,omitempty"`
	Problems []string  `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// OK reports whether the check found no problems.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

// FindGoMod walks up from startDir looking for go.mod.
func FindGoMod(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("modcheck: resolve %s: %w", startDir, err)
	}
	for {
		modPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(modPath); err == nil {
			return modPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w in or above %s", ErrNoGoMod, startDir)
		}
		dir = parent
	}
}

// Check parses the go.mod at goModPath and compares it against minGo,
// the oldest Go version sharedptr supports.
func Check(goModPath, minGo string) (*Report, error) {
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return nil, fmt.Errorf("modcheck: read go.mod: %w", err)
	}
	return CheckData(goModPath, data, minGo)
}

// CheckData is Check on go.mod contents already in memory. goModPath is
// used for error positions and to resolve relative replace targets.
func CheckData(goModPath string, data []byte, minGo string) (*Report, error) {
	f, err := modfile.Parse(goModPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("modcheck: parse go.mod: %w", err)
	}

	r := &Report{
		GoMod: goModPath,
		MinGo: minGo,
	}
	if f.Module != nil {
		r.Module = f.Module.Mod.Path
	}

	if f.Go != nil {
		r.Go = f.Go.Version
		r.GoOK = compareGo(r.Go, minGo) >= 0
		if !r.GoOK {
			r.Problems = append(r.Problems,
				fmt.Sprintf("go directive %s is older than the required %s", r.Go, minGo))
		}
	} else {
		r.Problems = append(r.Problems, "go.mod has no go directive")
	}

	for _, req := range f.Require {
		if req.Mod.Path == ModulePath {
			r.Required = req.Mod.Version
			r.Indirect = req.Indirect
		}
	}
	if r.Required == "" && r.Module != ModulePath {
		r.Problems = append(r.Problems, ModulePath+" is not required")
	}

	goModDir := filepath.Dir(goModPath)
	for _, rep := range f.Replace {
		if rep.Old.Path != ModulePath {
			continue
		}
		newPath := rep.New.Path
		local := rep.New.Version == "" && isLocalPath(newPath)
		if local && !filepath.IsAbs(newPath) {
			if abs, err := filepath.Abs(filepath.Join(goModDir, newPath)); err == nil {
				newPath = abs
			}
		}
		r.Replaces = append(r.Replaces, Replace{
			OldVersion: rep.Old.Version,
			New:        newPath,
			NewVersion: rep.New.Version,
			Local:      local,
		})
	}

	return r, nil
}

// compareGo compares two go directive versions ("1.24", "1.24.1").
// Versions that are not valid semver after a "v" prefix (release
// candidates, garbage) sort before valid ones.
func compareGo(a, b string) int {
	return semver.Compare("v"+a, "v"+b)
}

// isLocalPath checks if a replace target is a filesystem path rather than
// a module path. Local paths start with ./, ../, /, or a drive letter on
// Windows.
func isLocalPath(path string) bool {
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		return true
	}
	if filepath.IsAbs(path) {
		return true
	}
	if len(path) >= 2 && path[1] == ':' {
		return true
	}
	return false
}
