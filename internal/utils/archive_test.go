package utils

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndExtractArchiveRoundTrip(t *testing.T) {
	staging := t.TempDir()
	manifestPath := filepath.Join(staging, "blog_export.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`{"version":1}`), 0o644))

	assetDir := filepath.Join(staging, "images")
	require.NoError(t, os.MkdirAll(assetDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assetDir, "a.png"), []byte("aaa"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(assetDir, "b.jpg"), []byte("bbb"), 0o644))

	archivePath := filepath.Join(t.TempDir(), "backup.zip")
	require.NoError(t, CreateArchive(manifestPath, assetDir, archivePath))

	dest := t.TempDir()
	require.NoError(t, ExtractArchive(archivePath, dest))

	manifest, err := os.ReadFile(filepath.Join(dest, "blog_export.json"))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version":1}`), manifest)

	a, err := os.ReadFile(filepath.Join(dest, "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("aaa"), a)

	b, err := os.ReadFile(filepath.Join(dest, "images", "b.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bbb"), b)
}

func TestCreateArchiveWithoutAssetDir(t *testing.T) {
	staging := t.TempDir()
	manifestPath := filepath.Join(staging, "blog_export.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`{}`), 0o644))

	// 没有任何图片时 images 目录根本不存在，归档里只有清单
	archivePath := filepath.Join(t.TempDir(), "backup.zip")
	require.NoError(t, CreateArchive(manifestPath, filepath.Join(staging, "images"), archivePath))

	zr, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "blog_export.json", zr.File[0].Name)
}

func TestExtractArchiveRejectsGarbage(t *testing.T) {
	bogus := filepath.Join(t.TempDir(), "bogus.zip")
	require.NoError(t, os.WriteFile(bogus, []byte("绝对不是 zip"), 0o644))

	err := ExtractArchive(bogus, t.TempDir())
	assert.Error(t, err)
}

func TestExtractArchiveRejectsPathTraversal(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "evil.zip")
	out, err := os.Create(archivePath)
	require.NoError(t, err)

	zw := zip.NewWriter(out)
	w, err := zw.Create("../escape.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("escaped"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	parent := t.TempDir()
	dest := filepath.Join(parent, "extract")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	err = ExtractArchive(archivePath, dest)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(parent, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr), "穿越条目不能写到目标目录之外")
}
