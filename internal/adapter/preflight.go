package adapter

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrToolNotFound is returned when a toolchain program cannot be resolved.
var ErrToolNotFound = errors.New("tool not found")

// LookupTool resolves a program the way the invoker will: bare names through
// PATH, anything with a separator relative to dir. It returns the resolved path.
func LookupTool(name, dir string) (string, error) {
	if !hasPathSeparator(name) {
		path, err := exec.LookPath(name)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrToolNotFound, name, err)
		}

		return path, nil
	}

	path, err := resolveProgram(name, dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToolNotFound, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrToolNotFound, path, err)
	}

	if info.IsDir() || info.Mode()&0o111 == 0 {
		return "", fmt.Errorf("%w: %s is not an executable file", ErrToolNotFound, path)
	}

	return filepath.Clean(path), nil
}

// ToolResolver checks that toolchain programs exist before a run starts.
type ToolResolver interface {
	LookupTool(name, dir string) (string, error)
}

// PathToolResolver resolves programs with LookupTool.
type PathToolResolver struct{}

// NewToolResolver returns a PathToolResolver.
func NewToolResolver() *PathToolResolver {
	return &PathToolResolver{}
}

// LookupTool implements ToolResolver.
func (PathToolResolver) LookupTool(name, dir string) (string, error) {
	return LookupTool(name, dir)
}
