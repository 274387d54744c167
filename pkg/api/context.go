package api

import "context"

type requestIDKey struct{}

// WithRequestID 在 context 中记录请求 ID（日志和 X-Request-ID 头使用）
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext 读取请求 ID，不存在时返回空字符串
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
