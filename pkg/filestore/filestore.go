package filestore

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"Presensia/config"
	"Presensia/pkg/errors"
)

// 打卡照片落本地磁盘，文件名用 uuid 防碰撞和路径穿越
// 对外通过 /uploads/{ref} 提供静态访问

var (
	initOnce sync.Once
	initErr  error
)

// Init 确保上传目录存在
func Init() error {
	initOnce.Do(func() {
		initErr = os.MkdirAll(config.Cfg.UploadDir, 0o755)
	})
	return initErr
}

// SavePhoto 校验并保存打卡照片，返回存储引用名
func SavePhoto(fh *multipart.FileHeader) (string, error) {
	if fh.Size > config.Cfg.UploadMaxBytes {
		return "", errors.PhotoTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// 嗅探真实类型，不信扩展名
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	var ext string
	switch http.DetectContentType(head[:n]) {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	default:
		return "", errors.PhotoTypeInvalid
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	ref := uuid.NewString() + ext
	dstPath := filepath.Join(config.Cfg.UploadDir, ref)

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	return ref, nil
}

// Remove 删除照片文件，记录删除时清理留证用
func Remove(ref string) error {
	if ref == "" {
		return nil
	}
	// ref 是服务端生成的 uuid 文件名，Base 调用兜底防穿越
	path := filepath.Join(config.Cfg.UploadDir, filepath.Base(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
