package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/slice"
)

// SourceName 报告数据源名称
const SourceName = "reports"

// Severity 报告严重程度
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Issue 报告中的单个问题
type Issue struct {
	ID       int      `json:"id"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
}

// Report 合规报告。附件列保存上传后的文件名，未上传时为 nil。
type Report struct {
	ID                int       `json:"id" grid:"header=ID,width=70"`
	CreatedAt         time.Time `json:"createdAt" grid:"header=Data de criação,width=160"`
	CompanyName       string    `json:"companyName" grid:"header=Empresa,width=200"`
	Employees         *string   `json:"employees" grid:"header=Funcionários,type=file"`
	Substitutes       *string   `json:"substitues" grid:"header=Substitutos,type=file"`
	Paychecks         *string   `json:"paychecks" grid:"header=Contracheques,type=file"`
	PaycheckReceipts  *string   `json:"receipts_paychecks" grid:"header=Comprovantes de pagamento,type=file"`
	FoodBasketReceipt *string   `json:"receipts" grid:"header=Recibos de Cesta Básica,type=file"`
	Severity          Severity  `json:"severity" grid:"header=Severidade,width=110"`
	Issues            []Issue   `json:"issues" db:"-"`
}

// Seed 返回初始报告数据
func Seed() []Report {
	return []Report{
		{
			ID:          1,
			CompanyName: "ACME Corp",
			Severity:    SeverityHigh,
			CreatedAt:   time.Date(2025, 7, 17, 10, 30, 0, 0, time.UTC),
			Issues: []Issue{
				{ID: 101, Severity: SeverityHigh, Code: "ERR001"},
				{ID: 102, Severity: SeverityMedium, Code: "WRN001"},
			},
		},
		{
			ID:          2,
			CompanyName: "Beta Ltda",
			Severity:    SeverityMedium,
			CreatedAt:   time.Date(2025, 7, 16, 14, 20, 0, 0, time.UTC),
			Issues: []Issue{
				{ID: 201, Severity: SeverityMedium, Code: "WRN002"},
				{ID: 202, Severity: SeverityLow, Code: "INF001"},
			},
		},
		{
			ID:          3,
			CompanyName: "Zeta Inc",
			Severity:    SeverityLow,
			CreatedAt:   time.Date(2025, 7, 15, 9, 10, 0, 0, time.UTC),
			Issues: []Issue{
				{ID: 301, Severity: SeverityLow, Code: "INF002"},
			},
		},
	}
}

// NewSource 将报告列表包装为分页数据源。传入切片指针时 Reload 会重新读取。
func NewSource(reports *[]Report, opts ...slice.Option) (*slice.SliceSource, error) {
	return slice.New(reports, SourceName, opts...)
}

// Columns 返回报告的列定义（由 Report 的 struct tag 生成）
func Columns() ([]domain.Column, error) {
	src, err := slice.New([]Report{}, SourceName)
	if err != nil {
		return nil, fmt.Errorf("report columns: %w", err)
	}
	return src.Columns(context.Background())
}
