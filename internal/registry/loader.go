package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"pluginbuilder/internal/common/fsutil"
	"pluginbuilder/internal/scaffold"
	"pluginbuilder/pkg/types"
)

// LoadDir scans a projects root for plugin projects. A subdirectory counts as
// a project when it has a build configuration whose header names an operator
// type. A missing root yields no projects.
func LoadDir(dir string) ([]types.Project, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var projects []types.Project
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(abs, e.Name())
		op, err := scaffold.ReadHeader(filepath.Join(p, scaffold.BuildConfigName))
		if err != nil {
			continue
		}
		projects = append(projects, types.Project{Name: e.Name(), OpType: string(op), Dir: p})
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}
