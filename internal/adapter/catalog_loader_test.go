package adapter

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "parity.dev/pkg/parity/internal/model"
)

func TestBuiltinCatalog(t *testing.T) {
	catalog, err := BuiltinCatalog()
	require.NoError(t, err)

	assert.Equal(t, 32, catalog.Len())
	assert.Equal(t, "test1", catalog.At(0).Name)
	assert.Equal(t, 1, catalog.At(0).Weight)
	assert.Equal(t, "Simple Hello Program", catalog.At(0).Description)
	assert.Equal(t, "queens", catalog.At(catalog.Len()-1).Name)
	assert.Equal(t, 100, catalog.MaxScore())

	for _, c := range catalog.Cases() {
		assert.True(t, c.BuiltIn, c.Name)
	}
}

func TestFSCatalogLoader_Supplementary(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "tests/additional_tests.txt", []byte(
		"# extra programs\n"+
			"fib:Fibonacci numbers\n"+
			"\n"+
			"  ptr  \n"+
			"url:parses http://example.com\n"), 0o644))

	catalog, err := NewCatalogLoader(fsys).Load(context.Background(), CatalogSource{
		Additional: "tests/additional_tests.txt",
	})
	require.NoError(t, err)
	require.Equal(t, 35, catalog.Len())

	fib := catalog.At(32)
	assert.Equal(t, m.Case{Name: "fib", Description: "Fibonacci numbers"}, fib)
	assert.Equal(t, m.Case{Name: "ptr"}, catalog.At(33))
	assert.Equal(t, "parses http://example.com", catalog.At(34).Description)
	assert.Equal(t, 100, catalog.MaxScore())
}

func TestFSCatalogLoader_MissingSupplementaryIsFine(t *testing.T) {
	catalog, err := NewCatalogLoader(afero.NewMemMapFs()).Load(context.Background(), CatalogSource{
		Additional: "tests/additional_tests.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, 32, catalog.Len())
}

func TestFSCatalogLoader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		src   CatalogSource
	}{
		{
			name: "missing override",
			src:  CatalogSource{Override: "catalog.yaml"},
		},
		{
			name:  "override with unknown field",
			files: map[string]string{"catalog.yaml": "cases:\n  - name: a\n    points: 3\n"},
			src:   CatalogSource{Override: "catalog.yaml"},
		},
		{
			name:  "override with negative weight",
			files: map[string]string{"catalog.yaml": "cases:\n  - name: a\n    weight: -1\n"},
			src:   CatalogSource{Override: "catalog.yaml"},
		},
		{
			name:  "supplementary duplicates built-in",
			files: map[string]string{"extra.txt": "fact:again\n"},
			src:   CatalogSource{Additional: "extra.txt"},
		},
		{
			name:  "supplementary malformed name",
			files: map[string]string{"extra.txt": "ok\nbad name:desc\n"},
			src:   CatalogSource{Additional: "extra.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			for path, body := range tt.files {
				require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))
			}

			_, err := NewCatalogLoader(fsys).Load(context.Background(), tt.src)
			assert.Error(t, err)
		})
	}
}

func TestFSCatalogLoader_Override(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "catalog.yaml", []byte(
		"cases:\n"+
			"  - name: hello_world\n    weight: 2\n    description: Hello Program\n"+
			"  - name: exit_status\n    weight: 1\n    check_exit_code: true\n"), 0o644))

	catalog, err := NewCatalogLoader(fsys).Load(context.Background(), CatalogSource{Override: "catalog.yaml"})
	require.NoError(t, err)

	assert.Equal(t, []m.Case{
		{Name: "hello_world", Weight: 2, Description: "Hello Program", BuiltIn: true},
		{Name: "exit_status", Weight: 1, BuiltIn: true, CheckExitCode: true},
	}, catalog.Cases())
}
