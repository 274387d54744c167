package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	gohttp "net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// RequestIDHeader 每个请求携带的请求 ID 头
const RequestIDHeader = "X-Request-ID"

// HTTPClient 封装 HTTP 请求，支持认证、重试、模板头、TLS
type HTTPClient struct {
	client   *gohttp.Client
	config   *HTTPConfig
	baseURL  string
	username string
	password string
}

// NewHTTPClient 创建 HTTP 客户端
func NewHTTPClient(dsCfg *domain.DataSourceConfig, httpCfg *HTTPConfig) (*HTTPClient, error) {
	transport := gohttp.DefaultTransport.(*gohttp.Transport).Clone()

	// TLS 配置
	if httpCfg.TLSSkipVerify || httpCfg.TLSCACert != "" {
		tlsConfig := &tls.Config{}
		if httpCfg.TLSSkipVerify {
			tlsConfig.InsecureSkipVerify = true
		}
		if httpCfg.TLSCACert != "" {
			caCert, err := os.ReadFile(httpCfg.TLSCACert)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA cert: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA cert")
			}
			tlsConfig.RootCAs = caCertPool
		}
		transport.TLSClientConfig = tlsConfig
	}

	return &HTTPClient{
		client: &gohttp.Client{
			Transport: transport,
			Timeout:   httpCfg.GetTimeout(),
		},
		config:   httpCfg,
		baseURL:  strings.TrimRight(dsCfg.Host, "/"),
		username: dsCfg.Username,
		password: dsCfg.Password,
	}, nil
}

// buildURL 构建完整 URL
func (c *HTTPClient) buildURL(pathTemplate string, resource string) string {
	path := c.config.BasePath + pathTemplate
	if resource != "" {
		path = strings.ReplaceAll(path, "{resource}", resource)
	}
	return c.baseURL + path
}

// DoGet 发送 GET 请求
func (c *HTTPClient) DoGet(ctx context.Context, pathTemplate string, resource string, result interface{}) error {
	return c.doRequest(ctx, gohttp.MethodGet, c.buildURL(pathTemplate, resource), "", nil, result)
}

// DoPost 发送 JSON POST 请求
func (c *HTTPClient) DoPost(ctx context.Context, pathTemplate string, resource string, body interface{}, result interface{}) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}
	return c.doRequest(ctx, gohttp.MethodPost, c.buildURL(pathTemplate, resource), "application/json", bodyBytes, result)
}

// DoMultipart 发送 multipart/form-data POST 请求
func (c *HTTPClient) DoMultipart(ctx context.Context, pathTemplate string, form *MultipartForm, result interface{}) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return err
	}
	return c.doRequest(ctx, gohttp.MethodPost, c.buildURL(pathTemplate, ""), contentType, body, result)
}

// doRequest 执行 HTTP 请求（含认证、模板头、重试）
func (c *HTTPClient) doRequest(ctx context.Context, method, url, contentType string, bodyBytes []byte, result interface{}) error {
	requestID := api.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	maxAttempts := c.config.RetryCount + 1
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(c.config.GetRetryDelay())
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = c.doSingleRequest(ctx, method, url, contentType, requestID, bodyBytes, result)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}

		// 只在 5xx 或连接错误时重试
		var httpErr *HTTPError
		if errors.As(lastErr, &httpErr) && httpErr.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}

// doSingleRequest 执行单次 HTTP 请求
func (c *HTTPClient) doSingleRequest(ctx context.Context, method, url, contentType, requestID string, bodyBytes []byte, result interface{}) error {
	var bodyReader io.Reader
	if bodyBytes != nil {
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := gohttp.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	c.setAuth(req)
	c.setTemplateHeaders(req, method, requestID, bodyBytes)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// 处理错误状态码
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return &HTTPError{
				StatusCode: resp.StatusCode,
				Code:       errResp.Error.Code,
				Message:    errResp.Error.Message,
			}
		}
		message := strings.TrimSpace(string(respBody))
		if message == "" {
			message = gohttp.StatusText(resp.StatusCode)
		}
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w (body: %s)", err, string(respBody))
		}
	}

	return nil
}

// setAuth 设置认证头
func (c *HTTPClient) setAuth(req *gohttp.Request) {
	switch c.config.AuthType {
	case "bearer":
		if c.config.AuthToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
		}
	case "basic":
		req.SetBasicAuth(c.username, c.password)
	case "api_key":
		if c.config.APIKeyValue != "" {
			req.Header.Set(c.config.APIKeyHeader, c.config.APIKeyValue)
		}
	}
}

// setTemplateHeaders 设置模板渲染后的自定义头
func (c *HTTPClient) setTemplateHeaders(req *gohttp.Request, method, requestID string, bodyBytes []byte) {
	if len(c.config.Headers) == 0 {
		return
	}

	tctx := &TemplateContext{
		Method:    method,
		Path:      req.URL.Path,
		AuthToken: c.config.AuthToken,
		RequestID: requestID,
	}
	// multipart 请求体不参与签名
	if bodyBytes != nil && strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
		tctx.Body = string(bodyBytes)
	}

	for key, tmpl := range c.config.Headers {
		req.Header.Set(key, RenderTemplate(tmpl, tctx))
	}
}

// HealthCheck 执行健康检查
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	var resp HealthResponse
	return c.DoGet(ctx, c.config.Paths.Health, "", &resp)
}

// HTTPError HTTP 错误
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("HTTP %d [%s]: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
