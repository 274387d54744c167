package http

import (
	"context"
	"fmt"
	"io"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// UploadClient 文件上传客户端（文档识别与批量处理接口）
type UploadClient struct {
	client *HTTPClient
	paths  *PathsConfig
}

// NewUploadClient 创建上传客户端，认证方式与数据源相同
func NewUploadClient(dsCfg *domain.DataSourceConfig) (*UploadClient, error) {
	httpCfg, err := ParseHTTPConfig(dsCfg)
	if err != nil {
		return nil, err
	}
	client, err := NewHTTPClient(dsCfg, httpCfg)
	if err != nil {
		return nil, err
	}
	return &UploadClient{client: client, paths: httpCfg.Paths}, nil
}

// UploadFile 上传单个文件，表单字段为 file
func (u *UploadClient) UploadFile(ctx context.Context, filename string, content io.Reader) (*DocumentResponse, error) {
	form := &MultipartForm{}
	form.AddFile("file", filename, content)

	var resp DocumentResponse
	if err := u.client.DoMultipart(ctx, u.paths.Upload, form, &resp); err != nil {
		return nil, api.WrapError(err, api.ErrCodeUploadFailed, fmt.Sprintf("upload %s", filename))
	}
	return &resp, nil
}

// UploadMultiple 按模板批量处理文件，表单字段为 template_ids 和 files
func (u *UploadClient) UploadMultiple(ctx context.Context, templateIDs []string, files []FormFile) (*ProcessResponse, error) {
	if len(files) == 0 {
		return nil, api.NewError(api.ErrCodeInvalidParam, "no files to upload", nil)
	}

	form := &MultipartForm{}
	for _, id := range templateIDs {
		form.AddField("template_ids", id)
	}
	for _, f := range files {
		form.AddFile("files", f.Filename, f.Content)
	}

	var resp ProcessResponse
	if err := u.client.DoMultipart(ctx, u.paths.UploadProcess, form, &resp); err != nil {
		return nil, api.WrapError(err, api.ErrCodeUploadFailed, fmt.Sprintf("process %d files", len(files)))
	}
	return &resp, nil
}
