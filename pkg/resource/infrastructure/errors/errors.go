package infrastructure

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// ==================== 文件错误 ====================

// ErrFileNotFound 文件不存在错误
type ErrFileNotFound struct {
	FilePath string
	FileType string
}

func (e *ErrFileNotFound) Error() string {
	return e.FileType + " file not found: " + e.FilePath
}

// Unwrap 使 errors.Is(err, fs.ErrNotExist) 成立
func (e *ErrFileNotFound) Unwrap() error {
	return fs.ErrNotExist
}

// ErrUnsupportedFormat 文件扩展名不受支持
type ErrUnsupportedFormat struct {
	FilePath  string
	Extension string
	Supported []string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported file format %q for %s, expected one of %s",
		e.Extension, e.FilePath, strings.Join(e.Supported, ", "))
}

// 辅助函数

// NewErrFileNotFound 创建文件不存在错误
func NewErrFileNotFound(filePath, fileType string) *ErrFileNotFound {
	return &ErrFileNotFound{FilePath: filePath, FileType: fileType}
}

// NewErrUnsupportedFormat 创建文件格式不支持错误
func NewErrUnsupportedFormat(filePath, ext string, supported ...string) *ErrUnsupportedFormat {
	return &ErrUnsupportedFormat{FilePath: filePath, Extension: ext, Supported: supported}
}

// WrapOpenError 将打开文件的错误转换为数据源错误：
// 文件不存在时为 ErrFileNotFound，其余为 ErrConnectionFailed
func WrapOpenError(err error, filePath, fileType string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return NewErrFileNotFound(filePath, fileType)
	}
	return &domain.ErrConnectionFailed{
		DataSourceType: fileType,
		Reason:         fmt.Sprintf("open %q: %v", filePath, err),
	}
}
