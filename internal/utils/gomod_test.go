package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoModParser_ParseModuleName(t *testing.T) {
	dir := t.TempDir()
	goModPath := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(goModPath, []byte("module example.com/app\n\ngo 1.25\n"), 0o644))

	p := NewGoModParser(NewFileReader())

	name, err := p.ParseModuleName(goModPath)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", name)

	_, err = p.ParseModuleName(filepath.Join(dir, "notamod.txt"))
	require.Error(t, err)
}

func TestGoModParser_FindGoModFile(t *testing.T) {
	dir := t.TempDir()
	goModPath := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(goModPath, []byte("module example.com/app\n"), 0o644))

	nested := filepath.Join(dir, "internal", "services")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	p := NewGoModParser(NewFileReader())

	found, err := p.FindGoModFile(nested)
	require.NoError(t, err)
	assert.Equal(t, goModPath, found)
}
