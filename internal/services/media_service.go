package services

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"inkwell/internal/utils"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedImage 不在白名单里的图片格式。
var ErrUnsupportedImage = errors.New("不支持的图片格式")

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

const (
	coverMaxWidth   = 1200
	coverMaxHeight  = 630
	thumbnailWidth  = 300
	thumbnailHeight = 200
	thumbnailSubdir = "thumbnails"
)

// MediaService 负责上传目录里的图片：封面缩放、缩略图、删除和列表。
type MediaService struct {
	uploadDir string
}

func NewMediaService(uploadDir string) *MediaService {
	return &MediaService{uploadDir: uploadDir}
}

func (s *MediaService) UploadDir() string {
	return s.uploadDir
}

// SaveCoverImage 保存上传的封面：主图等比缩到 1200×630 以内，
// 同时生成 300×200 的缩略图，两者都用防碰撞文件名。
func (s *MediaService) SaveCoverImage(file *multipart.FileHeader) (imageFilename, thumbnailFilename string, err error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", "", ErrUnsupportedImage
	}

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", "", fmt.Errorf("解码图片失败: %w", err)
	}

	imageFilename = utils.UniqueName(file.Filename)
	base := strings.TrimSuffix(imageFilename, ext)
	thumbnailFilename = base + "_thumb" + ext

	imagePath := filepath.Join(s.uploadDir, imageFilename)
	thumbPath := filepath.Join(s.uploadDir, thumbnailSubdir, thumbnailFilename)

	if err := os.MkdirAll(filepath.Dir(thumbPath), 0o755); err != nil {
		return "", "", &utils.StorageError{Op: "mkdir", Path: filepath.Dir(thumbPath), Err: err}
	}

	cover := imaging.Fit(img, coverMaxWidth, coverMaxHeight, imaging.Lanczos)
	if err := imaging.Save(cover, imagePath, imaging.JPEGQuality(85)); err != nil {
		return "", "", &utils.StorageError{Op: "write", Path: imagePath, Err: err}
	}

	thumb := imaging.Fit(img, thumbnailWidth, thumbnailHeight, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(85)); err != nil {
		// 缩略图失败时回收已写出的主图，避免留下半套文件
		_ = os.Remove(imagePath)
		return "", "", &utils.StorageError{Op: "write", Path: thumbPath, Err: err}
	}

	return imageFilename, thumbnailFilename, nil
}

// SaveRawFile 不做缩放的原样保存，用于 favicon 之类的小文件。
func (s *MediaService) SaveRawFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer src.Close()

	name := utils.UniqueName(file.Filename)
	destPath := filepath.Join(s.uploadDir, name)
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", &utils.StorageError{Op: "mkdir", Path: s.uploadDir, Err: err}
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return "", &utils.StorageError{Op: "create", Path: destPath, Err: err}
	}
	defer dest.Close()

	if _, err := dest.ReadFrom(src); err != nil {
		return "", &utils.StorageError{Op: "write", Path: destPath, Err: err}
	}
	return name, nil
}

// DeleteCoverImage 删除封面及其缩略图；文件已不存在时只记日志。
func (s *MediaService) DeleteCoverImage(imageFilename, thumbnailFilename string) {
	if imageFilename != "" {
		path := filepath.Join(s.uploadDir, imageFilename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("删除图片 %s 失败: %v", path, err)
		}
	}
	if thumbnailFilename != "" {
		path := filepath.Join(s.uploadDir, thumbnailSubdir, thumbnailFilename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("删除缩略图 %s 失败: %v", path, err)
		}
	}
}

// ListImages 列出上传目录下的图片文件名（不含缩略图子目录），按名称排序。
func (s *MediaService) ListImages() ([]string, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &utils.StorageError{Op: "readdir", Path: s.uploadDir, Err: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if allowedImageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
