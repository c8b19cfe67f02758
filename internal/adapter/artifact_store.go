// Package adapter contains the infrastructure adapters of the harness: process
// execution, artifact files, catalogs, locks and persistent stores.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	m "parity.dev/pkg/parity/internal/model"
)

// DefaultSourceExt is the extension of corpus sources.
const DefaultSourceExt = ".c"

// ErrInvalidLayout is returned when two artifact kinds would share a suffix.
var ErrInvalidLayout = errors.New("invalid artifact layout")

// ArtifactStore persists per-case artifacts. Paths are a pure function of
// (case name, kind), so concurrent calls for different cases never touch the
// same file.
type ArtifactStore interface {
	// Dir is the directory all artifacts live in.
	Dir() m.Path

	// ArtifactPath returns where the artifact of the given kind lives.
	ArtifactPath(name string, kind m.ArtifactKind) m.Path

	// ResetCase deletes every generated artifact of the case. Missing files
	// are not an error and the source is never removed.
	ResetCase(ctx context.Context, name string) error

	// WriteArtifact stores captured output for the case.
	WriteArtifact(ctx context.Context, name string, kind m.ArtifactKind, data []byte) error

	// ReadArtifact loads a previously written artifact.
	ReadArtifact(name string, kind m.ArtifactKind) ([]byte, error)
}

// ArtifactLayout holds the configurable suffixes.
type ArtifactLayout struct {
	// SourceExt is the extension of the case source, e.g. ".c".
	SourceExt string
	// IntermediateSuffix names the file the candidate emits, e.g. ".s".
	// Empty when the candidate produces executables directly.
	IntermediateSuffix string
}

var fixedSuffixes = map[m.ArtifactKind]string{
	m.ArtifactReferenceBuildLog:   ".ref.build.out",
	m.ArtifactReferenceExecutable: ".ref",
	m.ArtifactCandidateBuildLog:   ".cand.build.out",
	m.ArtifactAssembleLog:         ".cand.asm.out",
	m.ArtifactCandidateExecutable: ".cand",
	m.ArtifactReferenceStdout:     ".out.ref",
	m.ArtifactReferenceStderr:     ".err.ref",
	m.ArtifactCandidateStdout:     ".out.cand",
	m.ArtifactCandidateStderr:     ".err.cand",
}

// FSArtifactStore is an ArtifactStore over an afero filesystem: the OS
// filesystem in production, a MemMapFs in tests.
type FSArtifactStore struct {
	fs       afero.Fs
	dir      string
	suffixes map[m.ArtifactKind]string
}

// NewArtifactStore validates the layout and builds a store rooted at dir.
func NewArtifactStore(fsys afero.Fs, dir m.Path, layout ArtifactLayout) (*FSArtifactStore, error) {
	if layout.SourceExt == "" {
		layout.SourceExt = DefaultSourceExt
	}

	suffixes := make(map[m.ArtifactKind]string, len(fixedSuffixes)+2)
	for kind, suffix := range fixedSuffixes {
		suffixes[kind] = suffix
	}

	suffixes[m.ArtifactSource] = layout.SourceExt
	if layout.IntermediateSuffix != "" {
		suffixes[m.ArtifactCandidateIntermediate] = layout.IntermediateSuffix
	}

	seen := make(map[string]m.ArtifactKind, len(suffixes))

	for kind, suffix := range suffixes {
		if !strings.HasPrefix(suffix, ".") || strings.ContainsAny(suffix, `/\`) {
			return nil, fmt.Errorf("%w: %s suffix %q must start with '.' and contain no separator", ErrInvalidLayout, kind, suffix)
		}

		if other, dup := seen[suffix]; dup {
			return nil, fmt.Errorf("%w: %s and %s share suffix %q", ErrInvalidLayout, kind, other, suffix)
		}

		seen[suffix] = kind
	}

	return &FSArtifactStore{
		fs:       fsys,
		dir:      string(dir),
		suffixes: suffixes,
	}, nil
}

// Dir implements ArtifactStore.
func (s *FSArtifactStore) Dir() m.Path {
	return m.Path(s.dir)
}

// ArtifactPath implements ArtifactStore. Kinds without a suffix in this
// layout yield an empty path.
func (s *FSArtifactStore) ArtifactPath(name string, kind m.ArtifactKind) m.Path {
	suffix, ok := s.suffixes[kind]
	if !ok {
		return ""
	}

	return m.Path(filepath.Join(s.dir, name+suffix))
}

// ResetCase implements ArtifactStore.
func (s *FSArtifactStore) ResetCase(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var errs []error

	for _, kind := range m.GeneratedArtifacts {
		path := s.ArtifactPath(name, kind)
		if path == "" {
			continue
		}

		if err := s.fs.Remove(string(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Error("Failed to remove artifact", "case", name, "kind", kind, "path", path, "error", err)
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}

	return errors.Join(errs...)
}

// WriteArtifact implements ArtifactStore.
func (s *FSArtifactStore) WriteArtifact(ctx context.Context, name string, kind m.ArtifactKind, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.ArtifactPath(name, kind)
	if path == "" {
		return fmt.Errorf("no %s artifact in this layout", kind)
	}

	if err := afero.WriteFile(s.fs, string(path), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// ReadArtifact implements ArtifactStore.
func (s *FSArtifactStore) ReadArtifact(name string, kind m.ArtifactKind) ([]byte, error) {
	path := s.ArtifactPath(name, kind)
	if path == "" {
		return nil, fmt.Errorf("no %s artifact in this layout", kind)
	}

	return afero.ReadFile(s.fs, string(path))
}
