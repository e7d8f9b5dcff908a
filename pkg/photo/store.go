package photo

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"OnSite/config"
)

// 打卡照片落盘。属于调用方协作侧：照片必须先落盘成功，
// 考勤转移才允许提交；核心状态机只记录文件名，不接触文件。

// Save 保存上传的照片，返回相对文件名
func Save(file *multipart.FileHeader, userID int64, action string, at time.Time) (string, error) {
	dir := config.Cfg.PhotoDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create photo dir: %w", err)
	}

	filename := fmt.Sprintf("%d_%s_%s.jpg", userID, sanitize(action), at.Format("20060102150405"))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded photo: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	return filename, nil
}

// sanitize 防止路径拼接出目录之外
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, "\\", "")
	return strings.ReplaceAll(s, "..", "")
}
