package document

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, path string, width int) {
	t.Helper()
	require.NoError(t, imaging.Save(image.NewGray(image.Rect(0, 0, width, 1)), path))
}

func TestCollectPages_OrderAndLimit(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "page")
	writePage(t, prefix+"-03.png", 3)
	writePage(t, prefix+"-01.png", 1)
	writePage(t, prefix+"-02.png", 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "document.pdf"), []byte("%PDF"), 0o600))

	pages, err := collectPages(prefix, 0)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i+1, p.Bounds().Dx())
	}

	limited, err := collectPages(prefix, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestCollectPages_NothingRendered(t *testing.T) {
	_, err := collectPages(filepath.Join(t.TempDir(), "page"), 0)
	assert.ErrorIs(t, err, ErrNoPagesRendered)
}
