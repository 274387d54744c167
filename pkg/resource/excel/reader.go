package excel

import (
	"fmt"
	"io"
	"slices"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/util"
	"github.com/xuri/excelize/v2"
)

// Read 读取 XLSX 内容的一个工作表（sheet 为空时使用第一个），第一行为列头
func Read(r io.Reader, sheet string) ([]domain.Column, []domain.Row, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer file.Close()

	return readSheet(file, sheet)
}

// readSheet 从已打开的文件读取工作表
func readSheet(file *excelize.File, sheet string) ([]domain.Column, []domain.Row, error) {
	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("no sheets found in excel file")
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, nil, fmt.Errorf("sheet not found: %s", sheet)
	}

	records, err := file.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read excel rows: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sheet is empty: %s", sheet)
	}

	headers := records[0]
	dataRows := records[1:]

	columns := util.InferColumns(headers, dataRows)
	rows := util.BuildRows(columns, dataRows)
	return util.EnsureIDColumn(columns), rows, nil
}
