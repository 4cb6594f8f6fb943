package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// 归档布局是导出与恢复之间的稳定格式：
//
//	blog_export_<时间戳>.zip
//	├── blog_export.json
//	└── images/<文件名>...

// CreateArchive writes manifestPath at the archive root and every regular
// file under assetDir at images/<name>, using deflate compression.
func CreateArchive(manifestPath, assetDir, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return &StorageError{Op: "create", Path: outputPath, Err: err}
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	if err := addFileToZip(zw, manifestPath, filepath.Base(manifestPath)); err != nil {
		return err
	}

	entries, err := os.ReadDir(assetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &StorageError{Op: "readdir", Path: assetDir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(assetDir, entry.Name())
		if err := addFileToZip(zw, src, "images/"+entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

func addFileToZip(zw *zip.Writer, srcPath, arcName string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return &StorageError{Op: "open", Path: srcPath, Err: err}
	}
	defer src.Close()

	w, err := zw.Create(arcName)
	if err != nil {
		return fmt.Errorf("创建 ZIP 条目 %s 失败: %w", arcName, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("写入 ZIP 条目 %s 失败: %w", arcName, err)
	}
	return nil
}

// ExtractArchive 把归档完整解压到 destDir。
// 非法的 zip 容器直接报错；带路径穿越的条目名一律拒绝。
func ExtractArchive(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("无效的 ZIP 文件: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		target := filepath.Join(destDir, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("ZIP 条目包含非法路径: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return &StorageError{Op: "mkdir", Path: target, Err: err}
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return &StorageError{Op: "mkdir", Path: filepath.Dir(target), Err: err}
		}
		if err := extractEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("打开 ZIP 条目 %s 失败: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return &StorageError{Op: "create", Path: target, Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return &StorageError{Op: "write", Path: target, Err: err}
	}
	return nil
}
