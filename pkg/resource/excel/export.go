package excel

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet 导出时使用的工作表名
const DefaultSheet = "Sheet1"

// pixelsPerChar 列宽像素到 Excel 字符宽度的换算
const pixelsPerChar = 7

// dateFormat 日期单元格的显示格式，读回时可被重新识别为日期
var dateFormat = "yyyy-mm-dd"

// Export 将列和行写成 XLSX。表头为列标题，日期列使用日期格式，
// 设置了 Width 的列按像素换算列宽，首行冻结。
func Export(w io.Writer, sheet string, columns []domain.Column, rows []domain.Row) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	file := excelize.NewFile()
	defer file.Close()

	if sheet != DefaultSheet {
		if err := file.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dateStyle, err := file.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	sw, err := file.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for i, col := range columns {
		if col.Width > 0 {
			if err := sw.SetColWidth(i+1, i+1, float64(col.Width)/pixelsPerChar); err != nil {
				return fmt.Errorf("failed to set width of %s: %w", col.Field, err)
			}
		}
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col.Label()}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r, row := range rows {
		cells := make([]interface{}, len(columns))
		for i, col := range columns {
			cells[i] = cellValue(row[col.Field], col.Type, dateStyle)
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write excel file: %w", err)
	}
	return nil
}

// ExportFile 导出到文件
func ExportFile(path, sheet string, columns []domain.Column, rows []domain.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Export(file, sheet, columns, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// cellValue 转换单元格的值
func cellValue(v interface{}, t domain.ColumnType, dateStyle int) interface{} {
	if v == nil {
		return nil
	}
	if t == domain.ColumnTypeDate {
		if parsed, ok := domain.ParseDate(v); ok {
			return excelize.Cell{StyleID: dateStyle, Value: parsed}
		}
	}
	switch val := v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, time.Time:
		return val
	}
	return domain.FormatValue(v)
}
