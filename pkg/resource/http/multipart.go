package http

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// FormFile 上传的单个文件
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// MultipartForm multipart/form-data 请求体。
// 文件内容在编码时整体读入内存，以便重试时重发。
type MultipartForm struct {
	fields [][2]string
	files  []FormFile
}

// AddField 追加文本字段（同名字段可重复）
func (f *MultipartForm) AddField(name, value string) {
	f.fields = append(f.fields, [2]string{name, value})
}

// AddFile 追加文件字段
func (f *MultipartForm) AddFile(field, filename string, content io.Reader) {
	f.files = append(f.files, FormFile{Field: field, Filename: filename, Content: content})
}

// Encode 编码为请求体，返回内容和 Content-Type
func (f *MultipartForm) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", kv[0], err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", file.Filename, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", file.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
