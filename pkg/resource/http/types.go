package http

import "github.com/kasuganosora/datagrid/pkg/resource/domain"

// ── HTTP API 响应结构体 ──
// 查询请求体直接使用 domain.GetManyParams，响应体为 domain.GetManyResult

// SchemaResponse 资源列定义响应
type SchemaResponse struct {
	Name    string          `json:"name"`
	Columns []domain.Column `json:"columns"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status string `json:"status"`
}

// DocumentResponse 单文件上传响应
type DocumentResponse struct {
	DocumentMD string `json:"document_md"`
}

// ProcessResponse 多文件处理响应
type ProcessResponse struct {
	Results []map[string]interface{} `json:"results"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
