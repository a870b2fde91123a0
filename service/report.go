package service

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	flowSheet     = "每日流水"
	categorySheet = "类别汇总"
)

var cellBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

// BuildMonthlyReport 将月度统计导出为 xlsx，包含每日流水和类别汇总两个工作表
func BuildMonthlyReport(a *MonthlyAnalytics) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", flowSheet)
	if _, err := f.NewSheet(categorySheet); err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder,
	})

	// 每日流水
	writeHeader(f, flowSheet, []string{"日期", "金额", "累计"}, headerStyle)
	f.SetColWidth(flowSheet, "A", "A", 14)
	f.SetColWidth(flowSheet, "B", "C", 14)
	for i, d := range a.DailyFlow {
		row := i + 2
		f.SetCellValue(flowSheet, fmt.Sprintf("A%d", row), d.Date)
		f.SetCellValue(flowSheet, fmt.Sprintf("B%d", row), d.Amount.InexactFloat64())
		f.SetCellValue(flowSheet, fmt.Sprintf("C%d", row), d.Accumulated.InexactFloat64())
		f.SetCellStyle(flowSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), dataStyle)
	}

	// 类别汇总
	writeHeader(f, categorySheet, []string{"类别", "金额", "占比(%)", "笔数"}, headerStyle)
	f.SetColWidth(categorySheet, "A", "A", 20)
	f.SetColWidth(categorySheet, "B", "D", 12)
	for i, c := range a.CategoryOverview {
		row := i + 2
		f.SetCellValue(categorySheet, fmt.Sprintf("A%d", row), c.CategoryName)
		f.SetCellValue(categorySheet, fmt.Sprintf("B%d", row), c.TotalAmount.InexactFloat64())
		f.SetCellValue(categorySheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%.2f", c.Percentage))
		f.SetCellValue(categorySheet, fmt.Sprintf("D%d", row), c.TransactionCount)
		f.SetCellStyle(categorySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), dataStyle)
	}

	// 合计行
	summaryRow := len(a.CategoryOverview) + 2
	f.SetCellValue(categorySheet, fmt.Sprintf("A%d", summaryRow), "合计")
	f.SetCellValue(categorySheet, fmt.Sprintf("B%d", summaryRow), a.TotalAmount.InexactFloat64())

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return buf, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
