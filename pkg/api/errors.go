package api

import (
	"errors"
	"fmt"
)

// ErrorCode 错误码，区分查询、上传、导入导出等失败类别
type ErrorCode string

const (
	ErrCodeInvalidParam ErrorCode = "INVALID_PARAM"
	ErrCodeFetchFailed  ErrorCode = "FETCH_FAILED"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeUploadFailed ErrorCode = "UPLOAD_FAILED"
	ErrCodeExportFailed ErrorCode = "EXPORT_FAILED"
	ErrCodeImportFailed ErrorCode = "IMPORT_FAILED"
)

// Error 带错误码的错误，Cause 为底层错误
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError 创建错误
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WrapError 以新的错误码包装 err，err 为 nil 时返回 nil
func WrapError(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// IsErrorCode 判断错误链最外层的 *Error 是否为 code
func IsErrorCode(err error, code ErrorCode) bool {
	return err != nil && GetErrorCode(err) == code
}

// GetErrorCode 返回错误链最外层 *Error 的错误码，没有时返回空字符串
func GetErrorCode(err error) ErrorCode {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
