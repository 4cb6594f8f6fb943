package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StorageError 标记上传目录或暂存目录上的文件系统故障。
// 调用方据此决定是跳过单条记录继续执行，还是中止整个批次。
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("存储操作 %s 失败 (%s): %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// MakeTempDir creates a fresh uniquely-named staging directory under root.
// The caller owns its lifetime and must remove it with RemoveTree.
func MakeTempDir(root string) (string, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir, err := os.MkdirTemp(root, "inkwell-staging-*")
	if err != nil {
		return "", &StorageError{Op: "mkdtemp", Path: root, Err: err}
	}
	return dir, nil
}

// CopyInto copies srcPath into destDir (created if absent), keeping the filename.
func CopyInto(srcPath, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return &StorageError{Op: "mkdir", Path: destDir, Err: err}
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return &StorageError{Op: "open", Path: srcPath, Err: err}
	}
	defer src.Close()

	destPath := filepath.Join(destDir, filepath.Base(srcPath))
	dest, err := os.Create(destPath)
	if err != nil {
		return &StorageError{Op: "create", Path: destPath, Err: err}
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return &StorageError{Op: "copy", Path: destPath, Err: err}
	}
	return nil
}

// CopyFile copies srcPath to destPath, creating the parent directory if
// absent. Used when the destination name differs from the source name.
func CopyFile(srcPath, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return &StorageError{Op: "mkdir", Path: filepath.Dir(destPath), Err: err}
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return &StorageError{Op: "open", Path: srcPath, Err: err}
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return &StorageError{Op: "create", Path: destPath, Err: err}
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return &StorageError{Op: "copy", Path: destPath, Err: err}
	}
	return nil
}

// UniqueName 在保留扩展名的前提下生成防碰撞文件名（时间戳 + 随机 token），
// 恢复备份时用它避免覆盖上传目录中的同名文件。
func UniqueName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%s%s", time.Now().Format("20060102150405"), token, ext)
}

// RemoveTree recursively deletes path. Idempotent: a path that is already
// gone is not an error, so it is safe to call from deferred cleanup blocks.
func RemoveTree(path string) error {
	if path == "" {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return &StorageError{Op: "rmtree", Path: path, Err: err}
	}
	return nil
}
