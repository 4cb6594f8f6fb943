package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeUpload 构造一个真实的 multipart 上传头，走和 gin 一样的解析路径。
func makeUpload(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, header, err := req.FormFile("file")
	require.NoError(t, err)
	return header
}

func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveCoverImageResizesAndCreatesThumbnail(t *testing.T) {
	uploadDir := t.TempDir()
	service := NewMediaService(uploadDir)

	header := makeUpload(t, "photo.png", makePNG(t, 2400, 1200))
	imageName, thumbName, err := service.SaveCoverImage(header)
	require.NoError(t, err)
	assert.NotEqual(t, "photo.png", imageName, "文件名必须防碰撞")

	cover, err := imaging.Open(filepath.Join(uploadDir, imageName))
	require.NoError(t, err)
	assert.LessOrEqual(t, cover.Bounds().Dx(), 1200)
	assert.LessOrEqual(t, cover.Bounds().Dy(), 630)

	thumb, err := imaging.Open(filepath.Join(uploadDir, "thumbnails", thumbName))
	require.NoError(t, err)
	assert.LessOrEqual(t, thumb.Bounds().Dx(), 300)
	assert.LessOrEqual(t, thumb.Bounds().Dy(), 200)
}

func TestSaveCoverImageSmallImageNotUpscaled(t *testing.T) {
	uploadDir := t.TempDir()
	service := NewMediaService(uploadDir)

	header := makeUpload(t, "small.png", makePNG(t, 100, 80))
	imageName, _, err := service.SaveCoverImage(header)
	require.NoError(t, err)

	cover, err := imaging.Open(filepath.Join(uploadDir, imageName))
	require.NoError(t, err)
	assert.Equal(t, 100, cover.Bounds().Dx())
	assert.Equal(t, 80, cover.Bounds().Dy())
}

func TestSaveCoverImageRejectsUnsupportedExtension(t *testing.T) {
	service := NewMediaService(t.TempDir())

	header := makeUpload(t, "script.svg", []byte("<svg/>"))
	_, _, err := service.SaveCoverImage(header)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestSaveCoverImageRejectsCorruptData(t *testing.T) {
	uploadDir := t.TempDir()
	service := NewMediaService(uploadDir)

	header := makeUpload(t, "broken.png", []byte("这不是图片"))
	_, _, err := service.SaveCoverImage(header)
	require.Error(t, err)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "解码失败不应留下任何文件")
}

func TestDeleteCoverImage(t *testing.T) {
	uploadDir := t.TempDir()
	service := NewMediaService(uploadDir)

	header := makeUpload(t, "photo.png", makePNG(t, 400, 300))
	imageName, thumbName, err := service.SaveCoverImage(header)
	require.NoError(t, err)

	service.DeleteCoverImage(imageName, thumbName)

	_, err = os.Stat(filepath.Join(uploadDir, imageName))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(uploadDir, "thumbnails", thumbName))
	assert.True(t, os.IsNotExist(err))

	// 重复删除不会报错
	service.DeleteCoverImage(imageName, thumbName)
}

func TestListImagesSkipsSubdirs(t *testing.T) {
	uploadDir := t.TempDir()
	service := NewMediaService(uploadDir)

	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "b.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "a.jpg"), []byte("jpg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "notes.txt"), []byte("txt"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(uploadDir, "thumbnails"), 0o755))

	names, err := service.ListImages()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.png"}, names)
}
