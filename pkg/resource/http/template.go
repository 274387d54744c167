package http

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TemplateContext 模板渲染上下文
type TemplateContext struct {
	Method    string // HTTP 方法 (GET/POST)
	Path      string // 请求路径
	Body      string // JSON 请求体
	AuthToken string // 配置中的 auth_token
	RequestID string // 本次请求的 ID
}

// maxTemplateExpansions 单个模板最多展开的表达式个数
const maxTemplateExpansions = 16

// templateFunc 内置函数，arity 为最少参数个数
type templateFunc struct {
	arity int
	fn    func(args []string) string
}

var templateFuncs = map[string]templateFunc{
	"hmac_sha256": {2, func(a []string) string { return hmacHex(sha256.New, a[0], a[1]) }},
	"hmac_md5":    {2, func(a []string) string { return hmacHex(md5.New, a[0], a[1]) }},
	"sha256": {1, func(a []string) string {
		h := sha256.Sum256([]byte(a[0]))
		return hex.EncodeToString(h[:])
	}},
	"md5": {1, func(a []string) string {
		h := md5.Sum([]byte(a[0]))
		return hex.EncodeToString(h[:])
	}},
	"base64": {1, func(a []string) string { return base64.StdEncoding.EncodeToString([]byte(a[0])) }},
	"upper":  {1, func(a []string) string { return strings.ToUpper(a[0]) }},
	"lower":  {1, func(a []string) string { return strings.ToLower(a[0]) }},
}

// RenderTemplate 渲染模板字符串，替换 {{变量}} 和 {{函数(参数)}}。
// 未知变量和函数渲染为空字符串。
func RenderTemplate(template string, ctx *TemplateContext) string {
	if !strings.Contains(template, "{{") {
		return template
	}

	vars := templateVars(ctx, time.Now())

	var sb strings.Builder
	rest := template
	for i := 0; i < maxTemplateExpansions; i++ {
		start := strings.Index(rest, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			break
		}
		end += start

		sb.WriteString(rest[:start])
		sb.WriteString(evaluateExpression(strings.TrimSpace(rest[start+2:end]), vars))
		rest = rest[end+2:]
	}
	sb.WriteString(rest)
	return sb.String()
}

// templateVars 计算一次渲染中所有可用变量
func templateVars(ctx *TemplateContext, now time.Time) map[string]string {
	if ctx == nil {
		ctx = &TemplateContext{}
	}
	id := uuid.New()
	return map[string]string{
		"timestamp":    strconv.FormatInt(now.Unix(), 10),
		"timestamp_ms": strconv.FormatInt(now.UnixMilli(), 10),
		"uuid":         id.String(),
		"nonce":        hex.EncodeToString(id[:8]),
		"date":         now.Format("2006-01-02"),
		"datetime":     now.UTC().Format("2006-01-02T15:04:05Z"),
		"method":       ctx.Method,
		"path":         ctx.Path,
		"body":         ctx.Body,
		"auth_token":   ctx.AuthToken,
		"request_id":   ctx.RequestID,
	}
}

// evaluateExpression 解析并执行表达式
// 支持：变量名、函数调用 func(arg1, arg2)
func evaluateExpression(expr string, vars map[string]string) string {
	open := strings.Index(expr, "(")
	if open > 0 && strings.HasSuffix(expr, ")") {
		f, ok := templateFuncs[strings.TrimSpace(expr[:open])]
		if !ok {
			return ""
		}
		args := splitArgs(expr[open+1 : len(expr)-1])
		if len(args) < f.arity {
			return ""
		}
		for i, arg := range args {
			args[i] = resolveArg(strings.TrimSpace(arg), vars)
		}
		return f.fn(args)
	}
	return vars[expr]
}

// splitArgs 按逗号分隔参数（考虑嵌套括号）
func splitArgs(s string) []string {
	var result []string
	depth := 0
	last := 0
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				result = append(result, s[last:i])
				last = i + 1
			}
		}
	}
	if last < len(s) {
		result = append(result, s[last:])
	}
	return result
}

// resolveArg 解析单个参数值，支持 + 拼接、引号字面量和变量
func resolveArg(arg string, vars map[string]string) string {
	var sb strings.Builder
	for _, p := range strings.Split(arg, "+") {
		p = strings.TrimSpace(p)
		switch {
		case len(p) >= 2 && (p[0] == '"' || p[0] == '\'') && p[len(p)-1] == p[0]:
			sb.WriteString(p[1 : len(p)-1])
		default:
			if val, ok := vars[p]; ok {
				sb.WriteString(val)
			} else {
				sb.WriteString(p)
			}
		}
	}
	return sb.String()
}

func hmacHex(h func() hash.Hash, key, data string) string {
	mac := hmac.New(h, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
