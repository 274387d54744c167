package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplate_Variables(t *testing.T) {
	ctx := &TemplateContext{
		Method:    "POST",
		Path:      "/_query/reports",
		Body:      `{"paginationModel":{"page":0,"pageSize":5}}`,
		AuthToken: "secret123",
		RequestID: "req-42",
	}

	tests := []struct {
		template string
		pattern  string
	}{
		{"{{method}}", `^POST$`},
		{"{{ path }}", `^/_query/reports$`},
		{"{{request_id}}", `^req-42$`},
		{"{{auth_token}}", `^secret123$`},
		{"{{timestamp}}", `^\d+$`},
		{"{{timestamp_ms}}", `^\d+$`},
		{"{{uuid}}", `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`},
		{"{{nonce}}", `^[0-9a-f]{16}$`},
		{"{{date}}", `^\d{4}-\d{2}-\d{2}$`},
		{"{{datetime}}", `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`},
		{"Bearer {{auth_token}} / {{method}}", `^Bearer secret123 / POST$`},
		{"{{unknown}}x", `^x$`},
		{"no template", `^no template$`},
		{"{{unterminated", `^\{\{unterminated$`},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Regexp(t, tt.pattern, RenderTemplate(tt.template, ctx))
		})
	}
}

func TestRenderTemplate_Functions(t *testing.T) {
	ctx := &TemplateContext{Method: "GET", Path: "/_health", AuthToken: "key"}

	mac := hmac.New(sha256.New, []byte("key"))
	mac.Write([]byte("GET/_health"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, RenderTemplate("{{hmac_sha256(auth_token, method + path)}}", ctx))
	assert.Equal(t, "R0VU", RenderTemplate("{{base64(method)}}", ctx))
	assert.Equal(t, "get", RenderTemplate("{{lower(method)}}", ctx))
	assert.Equal(t, "ABC", RenderTemplate(`{{upper("abc")}}`, ctx))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", RenderTemplate("{{md5('abc')}}", ctx))
	assert.Len(t, RenderTemplate("{{sha256(path)}}", ctx), 64)
	assert.Len(t, RenderTemplate("{{hmac_md5(auth_token, path)}}", ctx), 32)

	// 参数不足或未知函数
	assert.Equal(t, "", RenderTemplate("{{hmac_sha256(auth_token)}}", ctx))
	assert.Equal(t, "", RenderTemplate("{{crc32(path)}}", ctx))
}

func TestRenderTemplate_NilContext(t *testing.T) {
	assert.Equal(t, "[]", RenderTemplate("[{{method}}]", nil))
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t, []string{"a", " b"}, splitArgs("a, b"))
	assert.Equal(t, []string{"f(a,b)", "c"}, splitArgs("f(a,b),c"))
	assert.Nil(t, splitArgs(""))
}
