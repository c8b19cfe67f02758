package adapter

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	m "parity.dev/pkg/parity/internal/model"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// CatalogSource names the optional files that shape the catalog.
type CatalogSource struct {
	// Override replaces the built-in catalog with a YAML file of the same shape.
	Override m.Path
	// Additional lists supplementary cases, one "name[:description]" per line.
	// A missing file is not an error.
	Additional m.Path
}

// CatalogLoader builds the catalog a run schedules.
type CatalogLoader interface {
	Load(ctx context.Context, src CatalogSource) (m.Catalog, error)
}

type catalogFile struct {
	Cases []m.Case `yaml:"cases"`
}

// FSCatalogLoader reads catalog files through an afero filesystem.
type FSCatalogLoader struct {
	fs afero.Fs
}

// NewCatalogLoader returns a loader reading from fsys.
func NewCatalogLoader(fsys afero.Fs) *FSCatalogLoader {
	return &FSCatalogLoader{fs: fsys}
}

// Load implements CatalogLoader. Static cases come first and are marked
// built-in; supplementary cases follow with weight 0.
func (l *FSCatalogLoader) Load(ctx context.Context, src CatalogSource) (m.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return m.Catalog{}, err
	}

	raw := builtinCatalog

	if src.Override != "" {
		data, err := afero.ReadFile(l.fs, string(src.Override))
		if err != nil {
			return m.Catalog{}, fmt.Errorf("read catalog %s: %w", src.Override, err)
		}

		raw = data
	}

	static, err := parseCatalogYAML(raw)
	if err != nil {
		return m.Catalog{}, fmt.Errorf("parse catalog %s: %w", describeSource(src.Override), err)
	}

	if src.Additional == "" {
		return static, nil
	}

	data, err := afero.ReadFile(l.fs, string(src.Additional))
	if errors.Is(err, fs.ErrNotExist) {
		return static, nil
	}

	if err != nil {
		return m.Catalog{}, fmt.Errorf("read supplementary cases %s: %w", src.Additional, err)
	}

	extra, err := parseSupplementary(data)
	if err != nil {
		return m.Catalog{}, fmt.Errorf("parse supplementary cases %s: %w", src.Additional, err)
	}

	slog.Debug("Loaded supplementary cases", "path", src.Additional, "count", len(extra))

	catalog, err := static.Append(extra...)
	if err != nil {
		return m.Catalog{}, fmt.Errorf("merge supplementary cases %s: %w", src.Additional, err)
	}

	return catalog, nil
}

// BuiltinCatalog returns the embedded catalog.
func BuiltinCatalog() (m.Catalog, error) {
	return parseCatalogYAML(builtinCatalog)
}

func parseCatalogYAML(data []byte) (m.Catalog, error) {
	var file catalogFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&file); err != nil {
		return m.Catalog{}, fmt.Errorf("%w: %w", m.ErrInvalidCatalog, err)
	}

	for i := range file.Cases {
		file.Cases[i].BuiltIn = true
	}

	return m.NewCatalog(file.Cases...)
}

func parseSupplementary(data []byte) ([]m.Case, error) {
	var cases []m.Case

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		name, description, _ := strings.Cut(text, ":")
		c := m.Case{
			Name:        strings.TrimSpace(name),
			Description: strings.TrimSpace(description),
		}

		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		cases = append(cases, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cases, nil
}

func describeSource(p m.Path) string {
	if p == "" {
		return "(built-in)"
	}

	return string(p)
}
