package pkg

import (
	"os"
	"path/filepath"
)

// CheckFileExist 检查文件是否存在
func CheckFileExist(filePath string) (bool, error) {
	_, err := os.Lstat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsRegularFile 检查路径是否为普通文件（跟随符号链接）
func IsRegularFile(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ReadFileString 读取整个文件为字符串
func ReadFileString(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFileString 将字符串写入文件，必要时创建父目录
func WriteFileString(filePath, contents string) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, []byte(contents), 0o644)
}

// CanonicalPath 返回绝对且解析过符号链接的路径
func CanonicalPath(filePath string) (string, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
