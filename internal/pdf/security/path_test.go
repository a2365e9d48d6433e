package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator("")
	assert.Error(t, err)

	v, err := NewPathValidator("relative/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(v.Root()))
}

func TestPathValidator_Resolve(t *testing.T) {
	root := t.TempDir()
	v, err := NewPathValidator(root)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"relative", "nominas/enero.pdf", filepath.Join(v.Root(), "nominas", "enero.pdf"), false},
		{"absolute inside", filepath.Join(root, "cuadrante.pdf"), filepath.Join(root, "cuadrante.pdf"), false},
		{"root itself", root, filepath.Clean(root), false},
		{"traversal", "../escape.pdf", "", true},
		{"outside", "/etc/passwd", "", true},
		{"empty", "  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathValidator_SymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	require.NoError(t, os.WriteFile(target, []byte("%PDF-1.4"), 0o600))

	link := filepath.Join(root, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(root)
	require.NoError(t, err)

	_, err = v.Resolve("link.pdf")
	assert.Error(t, err)
}

func TestPathValidator_ResolveDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "nominas"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.pdf"), []byte("x"), 0o600))

	v, err := NewPathValidator(root)
	require.NoError(t, err)

	dir, err := v.ResolveDir("")
	require.NoError(t, err)
	assert.Equal(t, v.Root(), dir)

	dir, err = v.ResolveDir("nominas")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Root(), "nominas"), dir)

	_, err = v.ResolveDir("a.pdf")
	assert.Error(t, err)

	_, err = v.ResolveDir("missing")
	assert.Error(t, err)
}
