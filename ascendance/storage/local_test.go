package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_StageCommitOpen(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)
	ctx := context.Background()

	key := "illustrations/archetype_1/a.png"
	staged, err := s.Stage(ctx, key, strings.NewReader("png-bytes"))
	require.NoError(t, err)

	_, err = s.Open(ctx, key)
	assert.True(t, errs.IsNotFound(err), "staged object must not be visible: %v", err)

	require.NoError(t, staged.Commit(ctx))

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStorage_Discard(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)
	ctx := context.Background()

	staged, err := s.Stage(ctx, "icons/x.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, staged.Discard(ctx))

	entries, err := os.ReadDir(filepath.Join(root, stagingDir))
	require.NoError(t, err)
	assert.Empty(t, entries)

	// discarding after commit removes the committed file
	staged, err = s.Stage(ctx, "icons/y.png", strings.NewReader("y"))
	require.NoError(t, err)
	require.NoError(t, staged.Commit(ctx))
	require.NoError(t, staged.Discard(ctx))
	_, err = os.Stat(filepath.Join(root, "icons", "y.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_DeleteMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, s.Delete(context.Background(), "icons/missing.png"))
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: "illustrations/archetype_2/f.webp"},
		{key: "icons/f.png"},
		{key: "../etc/passwd", wantErr: true},
		{key: "icons/../../x", wantErr: true},
		{key: "", wantErr: true},
		{key: "icons\\x.png", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := CleanKey(tt.key)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestNewFilename(t *testing.T) {
	a := NewFilename("Dragon.PNG")
	b := NewFilename("Dragon.PNG")
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
}
