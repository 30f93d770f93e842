// Package catalog resolves which example catalog a launch targets.
package catalog

import (
	"errors"
	"path/filepath"
)

// DefaultName is the catalog used when no name is given.
const DefaultName = "default"

// examplesDir is the directory under the root that holds one project per catalog.
const examplesDir = "examples"

// LaunchContext is the resolved target of a single launch. It is built once
// and never mutated.
type LaunchContext struct {
	CatalogName string
	RootDir     string
	ProjectDir  string
}

// New builds a LaunchContext from the root directory and the positional
// arguments. Only args[0] is considered; an absent or empty name selects
// DefaultName. The project directory is not checked for existence.
func New(rootDir string, args []string) (LaunchContext, error) {
	if rootDir == "" {
		return LaunchContext{}, errors.New("catalog: root directory is required")
	}
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return LaunchContext{}, err
	}

	name := DefaultName
	if len(args) > 0 && args[0] != "" {
		name = args[0]
	}

	return LaunchContext{
		CatalogName: name,
		RootDir:     root,
		ProjectDir:  filepath.Join(root, examplesDir, name),
	}, nil
}

// Env returns the variables every launched step receives.
func (lc LaunchContext) Env() map[string]string {
	return map[string]string{
		"PROJECT_DIR": lc.ProjectDir,
		"CATALOG_DIR": lc.RootDir,
	}
}
