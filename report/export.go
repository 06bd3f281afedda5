/*
Package report renders ledger periods into files contractors hand out.

PURPOSE:
  Two artifacts: the monthly wage sheet as a spreadsheet (one row per
  day, advances and settlements called out), and a settlement receipt as
  a PDF for the worker being paid.
*/
package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/hazri/wagebook/ledger"
)

// BuildMonthSheetXLSX renders a period as a wage sheet workbook.
func BuildMonthSheetXLSX(worker *ledger.Worker, p *ledger.Period) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	daysSheet := "days"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(daysSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Monthly Wage Sheet")
	_ = f.SetCellValue(summarySheet, "A3", "Worker")
	_ = f.SetCellValue(summarySheet, "B3", worker.Name)
	_ = f.SetCellValue(summarySheet, "A4", "Role")
	_ = f.SetCellValue(summarySheet, "B4", string(worker.Role))
	_ = f.SetCellValue(summarySheet, "A5", "Month")
	_ = f.SetCellValue(summarySheet, "B5", fmt.Sprintf("%04d-%02d", p.Year, p.MonthIndex+1))
	_ = f.SetCellValue(summarySheet, "A6", "Days In Month")
	_ = f.SetCellValue(summarySheet, "B6", p.DaysInMonth)
	_ = f.SetCellValue(summarySheet, "A7", "Carried Wages")
	_ = f.SetCellValue(summarySheet, "B7", p.CarriedWages.String())
	_ = f.SetCellValue(summarySheet, "A8", "Carried Advance")
	_ = f.SetCellValue(summarySheet, "B8", p.CarriedAdvance.String())
	_ = f.SetCellValue(summarySheet, "A9", "Unsettled Wages")
	_ = f.SetCellValue(summarySheet, "B9", p.AccruedWages.String())
	_ = f.SetCellValue(summarySheet, "A10", "Unsettled Advance")
	_ = f.SetCellValue(summarySheet, "B10", p.AccruedAdvance.String())
	if p.LastSettlement != nil {
		_ = f.SetCellValue(summarySheet, "A11", "Settled Through Day")
		_ = f.SetCellValue(summarySheet, "B11", p.LastSettlement.DayOfMonth)
	}

	headers := []string{"Day", "Weekday", "Presence", "Wage", "Advance", "Advance Purpose"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(daysSheet, cell, h)
	}
	for i, e := range p.SortedEntries() {
		row := i + 2
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("A%d", row), e.DayOfMonth)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("B%d", row), e.Day)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("C%d", row), string(e.Presence))
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("D%d", row), e.Wage.String())
		if e.Advance != nil {
			_ = f.SetCellValue(daysSheet, fmt.Sprintf("E%d", row), e.Advance.Amount.String())
			_ = f.SetCellValue(daysSheet, fmt.Sprintf("F%d", row), e.Advance.Purpose)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSettlementReceiptPDF renders a receipt for one settlement.
func BuildSettlementReceiptPDF(worker *ledger.Worker, p *ledger.Period, s ledger.Settlement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Settlement Receipt")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Worker: %s (%s)", worker.Name, worker.Role))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Month: %04d-%02d", p.Year, p.MonthIndex+1))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Settled Through Day: %d", s.DayOfMonth))
	pdf.Ln(8)

	rows := []struct {
		label string
		value string
	}{
		{"Wages Occurred", s.WagesOccurred.String()},
		{"Advance Occurred", s.AdvanceOccurred.String()},
		{"Amount Taken", s.AmountTaken.String()},
		{"Wages Carried Forward", s.WagesTransferred.String()},
		{"Advance Carried Forward", s.AdvanceTransferred.String()},
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, "Amount", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(70, 6, r.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, r.value, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
